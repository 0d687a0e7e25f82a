package domain

import (
	"fmt"
	"strconv"
)

// EntityHandle - упакованный идентификатор сущности (Category + Layer + Serial).
// Выдается WorldEntityFactory при материализации.
type EntityHandle uint64

// Конфигурация битов
const (
	bitsSerial   = 32
	bitsLayer    = 24
	bitsCategory = 8

	shiftLayer    = bitsSerial
	shiftCategory = bitsSerial + bitsLayer

	maskSerial   = (1 << bitsSerial) - 1
	maskLayer    = (1 << bitsLayer) - 1
	maskCategory = (1 << bitsCategory) - 1
)

// InvalidHandle - нулевой хэндл, фабрика никогда его не выдает.
const InvalidHandle EntityHandle = 0

// PackHandle создает хэндл из компонентов. Индекс слоя берется по модулю 2^24.
func PackHandle(category CategoryID, layerIndex int, serial uint32) EntityHandle {
	id := uint64(serial) & maskSerial
	id |= (uint64(layerIndex) & maskLayer) << shiftLayer
	id |= (uint64(category) & maskCategory) << shiftCategory
	return EntityHandle(id)
}

func (h EntityHandle) Category() CategoryID {
	return CategoryID((h >> shiftCategory) & maskCategory)
}

func (h EntityHandle) Layer() int {
	return int((h >> shiftLayer) & maskLayer)
}

func (h EntityHandle) Serial() uint32 {
	return uint32(h & maskSerial)
}

// MarshalJSON сериализует хэндл в строку, так как JS теряет точность для больших int64
func (h EntityHandle) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(h), 10) + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (h *EntityHandle) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*h = EntityHandle(val)
	return nil
}

// String для логов: [Category:Layer:Serial]
func (h EntityHandle) String() string {
	return fmt.Sprintf("[%s:%d:%d]", h.Category(), h.Layer(), h.Serial())
}

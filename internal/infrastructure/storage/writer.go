package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"exodus-server/internal/domain"
)

const (
	MagicHeader string = `EXLT` // 4 байта
	Version1    uint32 = 1

	// FileExt - расширение файлов ленты слоев
	FileExt = ".exlt"
)

// TraceFileHeader - точное представление заголовка файла в памяти.
// binary.Write умеет писать его целиком: тут нет слайсов и строк, только массивы и числа.
type TraceFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Seed       int64   // 8 байт
	Timestamp  int64   // 8 байт
	Run        int32   // 4 байта
	LayerCount int32   // 4 байта
}

// LayerHeader - заголовок каждого слоя.
type LayerHeader struct {
	Index        int32   // 4
	Y            float64 // 8
	Flags        uint8   // 1 (bit 0 = dangerous)
	ContentCount uint16  // 2
}

// ContentHeader - фиксированная часть записи о сущности, за ней идет имя варианта.
type ContentHeader struct {
	Handle     uint64  // 8
	Category   uint8   // 1
	X          float64 // 8
	Y          float64 // 8
	Rotation   float64 // 8
	VariantLen uint8   // 1
}

const flagDangerous uint8 = 1

type TraceService struct {
	SaveDir string
}

func NewTraceService(dir string) *TraceService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &TraceService{SaveDir: dir}
}

// Save пишет ленту в SaveDir и возвращает путь к файлу.
func (s *TraceService) Save(trace *domain.LayerTrace) (string, error) {
	filename := fmt.Sprintf("trace_%d_run%d_%d%s", trace.Seed, trace.Run, trace.Timestamp, FileExt)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create trace file: %w", err)
	}
	defer f.Close()

	if err := writeBinary(f, trace); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, t *domain.LayerTrace) error {
	// 1. Глобальный заголовок
	header := TraceFileHeader{
		Version:    Version1,
		Seed:       t.Seed,
		Timestamp:  t.Timestamp,
		Run:        int32(t.Run),
		LayerCount: int32(len(t.Layers)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Слои
	for _, layer := range t.Layers {
		if len(layer.Content) > 65535 {
			return fmt.Errorf("layer %d has too much content: %d", layer.Index, len(layer.Content))
		}

		lh := LayerHeader{
			Index:        int32(layer.Index),
			Y:            layer.Y,
			ContentCount: uint16(len(layer.Content)),
		}
		if layer.Dangerous {
			lh.Flags |= flagDangerous
		}
		if err := binary.Write(w, binary.LittleEndian, &lh); err != nil {
			return fmt.Errorf("failed to write layer %d: %w", layer.Index, err)
		}

		// 3. Контент слоя
		for _, c := range layer.Content {
			variant := []byte(c.Variant)
			if len(variant) > 255 {
				return fmt.Errorf("variant name too long: %d", len(variant))
			}

			ch := ContentHeader{
				Handle:     uint64(c.Handle),
				Category:   uint8(c.Category),
				X:          c.Pos.X,
				Y:          c.Pos.Y,
				Rotation:   c.Rotation,
				VariantLen: uint8(len(variant)),
			}
			if err := binary.Write(w, binary.LittleEndian, &ch); err != nil {
				return err
			}
			if _, err := w.Write(variant); err != nil {
				return err
			}
		}
	}

	return nil
}

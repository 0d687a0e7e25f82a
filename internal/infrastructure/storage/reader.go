package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"exodus-server/internal/domain"
)

func (s *TraceService) Load(path string) (*domain.LayerTrace, error) {
	return LoadFile(path)
}

// LoadFile читает ленту из любого пути (для -inspect).
func LoadFile(path string) (*domain.LayerTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (*domain.LayerTrace, error) {
	// 1. Читаем заголовок целиком
	var header TraceFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.LayerCount < 0 {
		return nil, fmt.Errorf("corrupt layer count: %d", header.LayerCount)
	}

	trace := &domain.LayerTrace{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Run:       int(header.Run),
		Layers:    make([]domain.Layer, 0, header.LayerCount),
	}

	// 2. Слои
	for i := 0; i < int(header.LayerCount); i++ {
		var lh LayerHeader
		if err := binary.Read(r, binary.LittleEndian, &lh); err != nil {
			return nil, fmt.Errorf("failed to read layer %d: %w", i, err)
		}

		layer := domain.Layer{
			Index:     int(lh.Index),
			Y:         lh.Y,
			Dangerous: lh.Flags&flagDangerous != 0,
			Content:   make([]domain.PlacedContent, 0, lh.ContentCount),
		}

		// 3. Контент
		for j := 0; j < int(lh.ContentCount); j++ {
			var ch ContentHeader
			if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
				return nil, err
			}

			variant := make([]byte, ch.VariantLen)
			if _, err := io.ReadFull(r, variant); err != nil {
				return nil, err
			}

			layer.Content = append(layer.Content, domain.PlacedContent{
				Handle:   domain.EntityHandle(ch.Handle),
				Category: domain.CategoryID(ch.Category),
				Variant:  string(variant),
				Pos:      domain.Position{X: ch.X, Y: ch.Y},
				Rotation: ch.Rotation,
				LayerY:   lh.Y,
			})
		}

		trace.Layers = append(trace.Layers, layer)
	}

	return trace, nil
}

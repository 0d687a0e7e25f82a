package storage

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"exodus-server/internal/domain"
)

func sampleTrace() *domain.LayerTrace {
	t := &domain.LayerTrace{Seed: 42, Timestamp: 1700000000, Run: 3}
	t.Append(domain.Layer{Index: 0, Y: 10, Content: []domain.PlacedContent{
		{
			Handle:   domain.PackHandle(domain.CategoryMoon, 0, 1),
			Category: domain.CategoryMoon,
			Variant:  "moon_grey",
			Pos:      domain.Position{X: -2.5, Y: 10},
			LayerY:   10,
		},
		{
			Handle:   domain.PackHandle(domain.CategoryAsteroid, 0, 2),
			Category: domain.CategoryAsteroid,
			Variant:  "asteroid_small",
			Pos:      domain.Position{X: 4.25, Y: 10.5},
			Rotation: 123.5,
			LayerY:   10,
		},
	}})
	t.Append(domain.Layer{Index: 1, Y: 20, Dangerous: true, Content: []domain.PlacedContent{
		{
			Handle:   domain.PackHandle(domain.CategorySun, 1, 3),
			Category: domain.CategorySun,
			Variant:  "sun_yellow",
			Pos:      domain.Position{X: 0, Y: 20},
			LayerY:   20,
		},
	}})
	t.Append(domain.Layer{Index: 2, Y: 30})
	return t
}

func TestTrace_WriteRead(t *testing.T) {
	original := sampleTrace()

	var buf bytes.Buffer
	if err := writeBinary(&buf, original); err != nil {
		t.Fatalf("writeBinary failed: %v", err)
	}

	loaded, err := readBinary(&buf)
	if err != nil {
		t.Fatalf("readBinary failed: %v", err)
	}

	if loaded.Seed != 42 || loaded.Run != 3 || loaded.Timestamp != 1700000000 {
		t.Errorf("Header mismatch: %+v", loaded)
	}
	if len(loaded.Layers) != 3 || loaded.ContentCount() != 3 {
		t.Fatalf("Expected 3 layers / 3 entities, got %d / %d", len(loaded.Layers), loaded.ContentCount())
	}
	if !loaded.Layers[1].Dangerous || loaded.Layers[0].Dangerous {
		t.Error("Dangerous flag lost")
	}

	rock := loaded.Layers[0].Content[1]
	want := original.Layers[0].Content[1]
	if rock != want {
		t.Errorf("Asteroid mismatch:\n got %+v\nwant %+v", rock, want)
	}
}

func TestTrace_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr string
	}{
		{"Empty", nil, "failed to read header"},
		{"Bad magic", append([]byte("NOPE"), make([]byte, 28)...), "invalid magic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readBinary(bytes.NewReader(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected %q, got %v", tt.wantErr, err)
			}
		})
	}

	// Обрезанный файл
	var buf bytes.Buffer
	if err := writeBinary(&buf, sampleTrace()); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()-5]
	if _, err := readBinary(bytes.NewReader(truncated)); err == nil {
		t.Error("Expected error for truncated trace")
	}
}

func TestTraceService_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "traces")
	svc := NewTraceService(dir)

	path, err := svc.Save(sampleTrace())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Ext(path) != FileExt || !strings.Contains(filepath.Base(path), "trace_42_run3") {
		t.Errorf("Unexpected file name: %s", path)
	}

	loaded, err := svc.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Layers) != 3 {
		t.Errorf("Expected 3 layers, got %d", len(loaded.Layers))
	}
}

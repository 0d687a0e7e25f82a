package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestSeededRandom_Ranges(t *testing.T) {
	r := NewSeededRandom(42)

	for i := 0; i < 1000; i++ {
		f := r.UniformFloat(-8, 8)
		if f < -8 || f >= 8 {
			t.Fatalf("UniformFloat out of range: %f", f)
		}
		n := r.UniformInt(3, 7)
		if n < 3 || n >= 7 {
			t.Fatalf("UniformInt out of range: %d", n)
		}
	}
}

func TestSeededRandom_DegenerateRanges(t *testing.T) {
	r := NewSeededRandom(1)

	if got := r.UniformFloat(5, 5); got != 5 {
		t.Errorf("UniformFloat(5,5) = %f, want 5", got)
	}
	if got := r.UniformInt(4, 2); got != 4 {
		t.Errorf("UniformInt(4,2) = %d, want 4", got)
	}
}

func TestSeededRandom_Deterministic(t *testing.T) {
	a := NewSeededRandom(7)
	b := NewSeededRandom(7)

	for i := 0; i < 50; i++ {
		if a.UniformFloat(0, 1) != b.UniformFloat(0, 1) {
			t.Fatalf("Sequences diverged at step %d", i)
		}
	}

	// Reseed возвращает к началу последовательности
	first := NewSeededRandom(99).UniformInt(0, 1000)
	a.Reseed(99)
	if got := a.UniformInt(0, 1000); got != first {
		t.Errorf("Reseed did not restart sequence: got %d want %d", got, first)
	}
}

func TestStringToSeed(t *testing.T) {
	if StringToSeed("run-1") != StringToSeed("run-1") {
		t.Error("Seed must be stable for the same string")
	}
	if StringToSeed("run-1") == StringToSeed("run-2") {
		t.Error("Different strings should produce different seeds")
	}
	if StringToSeed("anything") < 0 {
		t.Error("Seed must be non-negative")
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Expected a UUID, got %q: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("Two IDs should not collide")
	}
}

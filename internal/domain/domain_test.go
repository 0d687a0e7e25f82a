package domain

import (
	"encoding/json"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected CategoryID
	}{
		{"MOON", CategoryMoon},
		{"moon", CategoryMoon},
		{" Black_Hole ", CategoryBlackHole},
		{"ASTEROID", CategoryAsteroid},
		{"comet", CategoryUnknown},
		{"", CategoryUnknown},
	}

	for _, tt := range tests {
		if got := ParseCategory(tt.input); got != tt.expected {
			t.Errorf("ParseCategory(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestCategoryID_Tag(t *testing.T) {
	if CategoryAsteroid.Tag() != TagAsteroid {
		t.Errorf("Asteroid tag = %s, want %s", CategoryAsteroid.Tag(), TagAsteroid)
	}
	for _, c := range []CategoryID{CategoryMoon, CategoryPlanet, CategorySun, CategoryBlackHole} {
		if c.Tag() != TagCelestialBody {
			t.Errorf("%s tag = %s, want %s", c, c.Tag(), TagCelestialBody)
		}
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected CommandType
	}{
		{"RESTART", CommandRestart},
		{"restart", CommandRestart},
		{"Pause", CommandPause},
		{"RESUME", CommandResume},
		{"MOVE", CommandUnknown},
	}

	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.expected {
			t.Errorf("ParseCommand(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
	if CommandUnknown.String() != "UNKNOWN" {
		t.Errorf("CommandUnknown.String() = %q", CommandUnknown.String())
	}
}

func TestPackHandle(t *testing.T) {
	h := PackHandle(CategorySun, 1234, 98765)

	if h.Category() != CategorySun {
		t.Errorf("Category() = %v, want %v", h.Category(), CategorySun)
	}
	if h.Layer() != 1234 {
		t.Errorf("Layer() = %d, want 1234", h.Layer())
	}
	if h.Serial() != 98765 {
		t.Errorf("Serial() = %d, want 98765", h.Serial())
	}
	if h == InvalidHandle {
		t.Error("Packed handle must not be zero")
	}
}

func TestEntityHandle_JSON(t *testing.T) {
	h := PackHandle(CategoryAsteroid, 3, 17)

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if data[0] != '"' {
		t.Errorf("Handle should be encoded as string, got %s", data)
	}

	var back EntityHandle
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != h {
		t.Errorf("Round trip mismatch: got %v want %v", back, h)
	}

	// Числовая форма тоже принимается
	if err := json.Unmarshal([]byte("42"), &back); err != nil || back != 42 {
		t.Errorf("Numeric form not accepted: %v %v", back, err)
	}
}

func TestPosition_DistanceTo(t *testing.T) {
	p1 := Position{X: 0, Y: 0}
	p2 := Position{X: 3, Y: 4}

	if d := p1.DistanceTo(p2); d != 5 {
		t.Errorf("DistanceTo = %f, want 5", d)
	}
	if p := p1.Shift(1, -2); p.X != 1 || p.Y != -2 {
		t.Errorf("Shift = %+v", p)
	}
}

func TestLayer_Count(t *testing.T) {
	l := Layer{Content: []PlacedContent{
		{Category: CategoryAsteroid},
		{Category: CategoryAsteroid},
		{Category: CategoryMoon},
	}}
	if l.Count(CategoryAsteroid) != 2 || l.Count(CategoryMoon) != 1 || l.Count(CategorySun) != 0 {
		t.Errorf("Unexpected counts in %+v", l)
	}
}

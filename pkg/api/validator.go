package api

import (
	"errors"
	"unicode/utf8"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p RestartPayload) Validate() error {
	if p.Seed < 0 {
		return errors.New("seed cannot be negative")
	}
	if p.Seed != 0 && p.Name != "" {
		return errors.New("seed and name are mutually exclusive")
	}
	if utf8.RuneCountInString(p.Name) > 64 {
		return errors.New("run name too long")
	}
	return nil
}

func (p SnapshotPayload) Validate() error {
	return nil
}

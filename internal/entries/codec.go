package entries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// CurrentVersion is the blob layout written by this package.
//
//	{"version": 1, "entries": [...]}
//
// Version 0 is the legacy layout: a bare JSON array of entries.
const CurrentVersion = 1

var (
	// ErrCorrupt marks a stored blob that cannot be decoded.
	ErrCorrupt = errors.New("stored collection is corrupt")
	// ErrUnsupportedVersion marks a blob written by a newer layout.
	ErrUnsupportedVersion = errors.New("stored collection has an unsupported version")
)

type envelope[T any] struct {
	Version int `json:"version"`
	Entries []T `json:"entries"`
}

func encode[T any](entries []T) ([]byte, error) {
	if entries == nil {
		entries = []T{}
	}
	data, err := json.Marshal(envelope[T]{Version: CurrentVersion, Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("marshal entries: %w", err)
	}
	return data, nil
}

// decode returns the entries and the layout version they were stored with.
func decode[T any](data []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty blob", ErrCorrupt)
	}

	if trimmed[0] == '[' {
		var legacy []T
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return legacy, 0, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	switch {
	case env.Version > CurrentVersion:
		return nil, env.Version, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	case env.Version < 1:
		return nil, env.Version, fmt.Errorf("%w: missing version", ErrCorrupt)
	}
	return env.Entries, env.Version, nil
}

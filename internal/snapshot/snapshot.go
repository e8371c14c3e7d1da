// Package snapshot converts World state to and from a flat, versioned JSON
// document. Component and resource types are reached by name through
// registries the caller fills before saving or loading.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Version is the only document version this package reads or writes.
const Version = 1

var (
	ErrVersionMismatch = errors.New("snapshot: unsupported version")
	ErrMalformed       = errors.New("snapshot: malformed document")
)

// Snapshot is the document root.
type Snapshot struct {
	Version   int                        `json:"version"`
	Entities  []Entity                   `json:"entities"`
	Resources map[string]json.RawMessage `json:"resources"`
}

// Entity is one saved entity. ID is the identifier it had when saved and is
// never reused on restore.
type Entity struct {
	ID         string                     `json:"id"`
	Components map[string]json.RawMessage `json:"components"`
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Version:   Version,
		Entities:  []Entity{},
		Resources: map[string]json.RawMessage{},
	}
}

// Marshal encodes s with stable key order.
func Marshal(s *Snapshot) ([]byte, error) {
	out := *s
	if out.Entities == nil {
		out.Entities = []Entity{}
	}
	if out.Resources == nil {
		out.Resources = map[string]json.RawMessage{}
	}
	return json.Marshal(&out)
}

// Parse decodes and validates data. The version is checked first; then
// entities must be an array and resources a non-null object. Each entity
// needs a string id and, when present, an object of components.
func Parse(data []byte) (*Snapshot, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: document is null", ErrMalformed)
	}

	var version int
	rawVersion, ok := root["version"]
	if !ok {
		return nil, fmt.Errorf("%w: missing version", ErrMalformed)
	}
	if err := json.Unmarshal(rawVersion, &version); err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrMalformed, err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, version, Version)
	}

	if !isJSON(root["entities"], '[') {
		return nil, fmt.Errorf("%w: entities must be an array", ErrMalformed)
	}
	if !isJSON(root["resources"], '{') {
		return nil, fmt.Errorf("%w: resources must be an object", ErrMalformed)
	}

	var rawEntities []json.RawMessage
	if err := json.Unmarshal(root["entities"], &rawEntities); err != nil {
		return nil, fmt.Errorf("%w: entities: %v", ErrMalformed, err)
	}
	s := newSnapshot()
	s.Entities = make([]Entity, 0, len(rawEntities))
	for i, raw := range rawEntities {
		e, err := parseEntity(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: entities[%d]: %v", ErrMalformed, i, err)
		}
		s.Entities = append(s.Entities, e)
	}
	if err := json.Unmarshal(root["resources"], &s.Resources); err != nil {
		return nil, fmt.Errorf("%w: resources: %v", ErrMalformed, err)
	}
	return s, nil
}

func parseEntity(raw json.RawMessage) (Entity, error) {
	if !isJSON(raw, '{') {
		return Entity{}, errors.New("not an object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Entity{}, err
	}
	var e Entity
	if err := json.Unmarshal(fields["id"], &e.ID); err != nil || !isJSON(fields["id"], '"') {
		return Entity{}, errors.New("id must be a string")
	}
	e.Components = map[string]json.RawMessage{}
	if rc, ok := fields["components"]; ok {
		if !isJSON(rc, '{') {
			return Entity{}, errors.New("components must be an object")
		}
		if err := json.Unmarshal(rc, &e.Components); err != nil {
			return Entity{}, err
		}
	}
	return e, nil
}

// isJSON reports whether raw starts with the given delimiter once leading
// whitespace is skipped.
func isJSON(raw json.RawMessage, delim byte) bool {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	return len(raw) > 0 && raw[0] == delim
}

// WriteFile marshals s to path, replacing the file atomically.
func WriteFile(path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// ReadFile reads and parses the snapshot at path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

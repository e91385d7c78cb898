package alfalfa

import (
	"encoding/json"
	"fmt"

	"ears-workbench/internal/erase"
	"ears-workbench/internal/skinerr"
)

// EntryKind classifies what an entry's blob holds.
type EntryKind int

const (
	KindBinary EntryKind = iota // opaque custom blob
	KindImage                   // encoded auxiliary texture (wing, cape)
	KindErase                   // erase region list
)

func (k EntryKind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindImage:
		return "image"
	case KindErase:
		return "erase"
	}
	return fmt.Sprintf("EntryKind(%d)", int(k))
}

// Entry is the typed view of one container value.
// Data is set for KindBinary and KindImage, Regions for KindErase.
type Entry struct {
	Kind    EntryKind
	Data    []byte
	Regions []erase.Region
}

// KindOf returns the kind implied by a key.
func KindOf(key string) EntryKind {
	switch key {
	case KeyWing, KeyCape:
		return KindImage
	case KeyErase:
		return KindErase
	}
	return KindBinary
}

// Entries returns every entry classified by its key.
func (d *Data) Entries() (map[string]Entry, error) {
	out := make(map[string]Entry, d.Len())
	for _, k := range d.Keys() {
		v := d.entries[k]
		switch kind := KindOf(k); kind {
		case KindErase:
			regions, err := erase.Decode(v)
			if err != nil {
				return nil, err
			}
			out[k] = Entry{Kind: kind, Regions: regions}
		default:
			out[k] = Entry{Kind: kind, Data: append([]byte{}, v...)}
		}
	}
	return out, nil
}

// FromEntries builds a container from typed entries. An erase entry is
// stored under KeyErase whatever key it came with; an empty one is dropped.
func FromEntries(version uint8, entries map[string]Entry) (*Data, error) {
	d := NewVersion(version)
	for k, e := range entries {
		switch e.Kind {
		case KindErase:
			d.SetEraseRegions(e.Regions)
		case KindBinary, KindImage:
			if err := d.Set(k, e.Data); err != nil {
				return nil, err
			}
		default:
			return nil, skinerr.Decodef("alfalfa: entries", "key %q has unknown kind %d", k, e.Kind)
		}
	}
	return d, nil
}

type entryJSON struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the entry as {"type": ..., "value": ...}; blobs
// become base64 strings and erase entries a list of regions.
func (e Entry) MarshalJSON() ([]byte, error) {
	var (
		value []byte
		err   error
	)
	switch e.Kind {
	case KindErase:
		regions := e.Regions
		if regions == nil {
			regions = []erase.Region{}
		}
		value, err = json.Marshal(regions)
	case KindBinary, KindImage:
		value, err = json.Marshal(e.Data)
	default:
		return nil, fmt.Errorf("alfalfa: marshal entry: unknown kind %d", e.Kind)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryJSON{Type: e.Kind.String(), Value: value})
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "binary", "image":
		var data []byte
		if err := json.Unmarshal(raw.Value, &data); err != nil {
			return fmt.Errorf("alfalfa: entry value: %w", err)
		}
		if data == nil {
			data = []byte{}
		}
		e.Kind, e.Data, e.Regions = KindBinary, data, nil
		if raw.Type == "image" {
			e.Kind = KindImage
		}
	case "erase":
		var regions []erase.Region
		if err := json.Unmarshal(raw.Value, &regions); err != nil {
			return fmt.Errorf("alfalfa: erase value: %w", err)
		}
		e.Kind, e.Data, e.Regions = KindErase, nil, regions
	default:
		return fmt.Errorf("alfalfa: invalid type tag %q", raw.Type)
	}
	return nil
}

// Package alfalfa implements the versioned key/blob container that Ears
// skins carry hidden in the alpha channel of their base layer.
//
// Data is a plain in-memory map and never touches pixels; Read and Write
// move it in and out of a 64x64 skin.
package alfalfa

import (
	"bytes"

	"ears-workbench/internal/erase"
	"ears-workbench/internal/skinerr"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Reserved keys.
const (
	KeyErase = "erase"
	KeyWing  = "wing"
	KeyCape  = "cape"
	// KeyEnd terminates the serialized entry stream and is never stored.
	KeyEnd = "END"
)

// Data is a versioned mapping from key to byte blob. Unknown keys are kept
// verbatim. A key holding an empty blob is present, not absent.
type Data struct {
	version uint8
	entries map[string][]byte
}

// New returns an empty container with version 0.
func New() *Data {
	return NewVersion(0)
}

// NewVersion returns an empty container with the given version.
func NewVersion(version uint8) *Data {
	return &Data{version: version, entries: make(map[string][]byte)}
}

// Version returns the format revision.
func (d *Data) Version() uint8 {
	if d == nil {
		return 0
	}
	return d.version
}

// SetVersion migrates the container to a new format revision.
func (d *Data) SetVersion(v uint8) {
	d.version = v
}

// Get returns the blob stored under key.
func (d *Data) Get(key string) ([]byte, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.entries[key]
	return v, ok
}

// Has reports whether key is present, even with an empty blob.
func (d *Data) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Set stores a copy of blob under key, replacing any previous value.
func (d *Data) Set(key string, blob []byte) error {
	if key == "" || key == KeyEnd {
		return &skinerr.Error{Kind: skinerr.ErrInvalidArgument, Op: "alfalfa: set", Msg: "reserved key " + `"` + key + `"`}
	}
	d.put(key, append([]byte{}, blob...))
	return nil
}

// Delete removes key. Deleting a missing key is a no-op.
func (d *Data) Delete(key string) {
	delete(d.entries, key)
}

// Len returns the number of entries.
func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// IsEmpty reports whether there are no entries, regardless of version.
func (d *Data) IsEmpty() bool {
	return d.Len() == 0
}

// Keys returns the entry keys in sorted order.
func (d *Data) Keys() []string {
	if d == nil {
		return nil
	}
	keys := maps.Keys(d.entries)
	slices.Sort(keys)
	return keys
}

// Clone returns a deep copy.
func (d *Data) Clone() *Data {
	if d == nil {
		return New()
	}
	c := NewVersion(d.version)
	for k, v := range d.entries {
		c.entries[k] = append([]byte{}, v...)
	}
	return c
}

// Equal reports whether both containers hold the same version and entries.
func (d *Data) Equal(o *Data) bool {
	if d.Version() != o.Version() || d.Len() != o.Len() {
		return false
	}
	if d == nil {
		return true
	}
	for k, v := range d.entries {
		ov, ok := o.Get(k)
		if !ok || !bytes.Equal(v, ov) {
			return false
		}
	}
	return true
}

// EraseRegions decodes the regions stored under KeyErase.
// ok is false when the key is absent.
func (d *Data) EraseRegions() (regions []erase.Region, ok bool, err error) {
	blob, ok := d.Get(KeyErase)
	if !ok {
		return nil, false, nil
	}
	regions, err = erase.Decode(blob)
	if err != nil {
		return nil, true, err
	}
	return regions, true, nil
}

// SetEraseRegions stores regions under KeyErase. An empty list removes the
// key entirely rather than storing an empty blob.
func (d *Data) SetEraseRegions(regions []erase.Region) {
	if len(regions) == 0 {
		d.Delete(KeyErase)
		return
	}
	d.put(KeyErase, erase.Encode(regions))
}

func (d *Data) put(key string, blob []byte) {
	if d.entries == nil {
		d.entries = make(map[string][]byte)
	}
	d.entries[key] = blob
}

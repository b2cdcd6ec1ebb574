package retropak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestLimitsWithDefaults(t *testing.T) {
	l := Limits{MaxResources: 5}.withDefaults()
	if l.MaxResources != 5 {
		t.Fatalf("explicit limit overwritten: %d", l.MaxResources)
	}
	d := DefaultLimits()
	if l.MaxArchiveSize != d.MaxArchiveSize || l.MaxNamedEntries != d.MaxNamedEntries || l.MaxResourceSize != d.MaxResourceSize {
		t.Fatalf("defaults not filled in: %#v", l)
	}
	if l.MaxNameLength != d.MaxNameLength || l.MaxLanguages != d.MaxLanguages || l.MaxStringsPerLanguage != d.MaxStringsPerLanguage {
		t.Fatalf("string-table defaults not filled in: %#v", l)
	}
}

func TestDecode_ArchiveSizeLimit(t *testing.T) {
	p := samplePAK(t)
	b, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decode(bytes.NewReader(b), WithReadLimits(Limits{MaxArchiveSize: 64}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestDecode_ResourceCountLimit(t *testing.T) {
	p := samplePAK(t)
	b, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodePAK(b, WithReadLimits(Limits{MaxResources: 2}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if _, err := DecodePAK(b, WithReadLimits(Limits{MaxResources: 3})); err != nil {
		t.Fatalf("limit at the exact count must pass: %v", err)
	}
}

func TestDecode_NamedEntryLimit(t *testing.T) {
	p := samplePAK(t)
	b, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodePAK(b, WithReadLimits(Limits{MaxNamedEntries: 1}))
	if err != nil {
		t.Fatalf("limit at the exact count must pass: %v", err)
	}
	// A hostile count field is rejected before any entry allocation.
	hostile := make([]byte, len(b))
	copy(hostile, b)
	hostile[8], hostile[9], hostile[10], hostile[11] = 0xFF, 0xFF, 0xFF, 0xFF
	_, err = DecodePAK(hostile)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestDecode_ResourceSizeLimit(t *testing.T) {
	p := samplePAK(t)
	b, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodePAK(b, WithReadLimits(Limits{MaxResourceSize: 8}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestDecode_HugeArchiveSizeLimit(t *testing.T) {
	// A cap past the int64 range must not wrap the stream read budget.
	p := samplePAK(t)
	b, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(bytes.NewReader(b), WithReadLimits(Limits{MaxArchiveSize: math.MaxUint64})); err != nil {
		t.Fatalf("decode under a huge cap: %v", err)
	}
}

func TestDecodePAK_NameLengthLimit(t *testing.T) {
	p := samplePAK(t)
	b, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// The alias table holds the 4-byte name "test".
	_, err = DecodePAK(b, WithReadLimits(Limits{MaxNameLength: 2}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if _, err := DecodePAK(b, WithReadLimits(Limits{MaxNameLength: 4})); err != nil {
		t.Fatalf("limit at the exact length must pass: %v", err)
	}
}

func TestDecodeSTRG_LanguageCountLimit(t *testing.T) {
	// A header declaring fifty thousand languages is rejected before any
	// entry allocation, including when reached through the PAK registry.
	b := make([]byte, strgHeaderSize)
	binary.BigEndian.PutUint32(b[0:4], STRGMagic)
	binary.BigEndian.PutUint32(b[4:8], 0)
	binary.BigEndian.PutUint32(b[8:12], 50_000)
	binary.BigEndian.PutUint32(b[12:16], 1)
	_, err := DecodeSTRG(b)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}

	// The same payload smuggled into an archive is rejected by the built-in
	// STRG codec during the PAK decode.
	p, err := NewPAK(2, 0, nil,
		[]ResourceEntry{{Type: "STRG", AssetID: 9}},
		[]Resource{RawResource{Type: "STRG", Data: b}})
	if err != nil {
		t.Fatal(err)
	}
	enc, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodePAK(enc)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded through the registry, got %v", err)
	}
}

func TestDecodeSTRG_StringCountLimit(t *testing.T) {
	s := sampleSTRG(t)
	b, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSTRG(b, WithReadLimits(Limits{MaxStringsPerLanguage: 1})); err != nil {
		t.Fatalf("limit at the exact count must pass: %v", err)
	}
	// A hostile per-language count is rejected before the offset arrays are
	// allocated.
	hostile := make([]byte, len(b))
	copy(hostile, b)
	binary.BigEndian.PutUint32(hostile[12:16], 1<<24)
	_, err = DecodeSTRG(hostile)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestDecodeSTRG_NameLengthLimit(t *testing.T) {
	s := sampleSTRG(t)
	b, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// The name table holds the 8-byte name "greeting".
	_, err = DecodeSTRG(b, WithReadLimits(Limits{MaxNameLength: 4}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if _, err := DecodeSTRG(b, WithReadLimits(Limits{MaxNameLength: 8})); err != nil {
		t.Fatalf("limit at the exact length must pass: %v", err)
	}
}

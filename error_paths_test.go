package retropak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestDecodePAK_ShortHeader(t *testing.T) {
	_, err := DecodePAK([]byte{0x00, 0x02, 0x00, 0x00})
	if !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestDecodePAK_TruncatedNamedEntry(t *testing.T) {
	// Header declaring one alias, then a prefix whose name length overruns
	// the buffer.
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x02, 0x00, 0x00}) // major=2, minor=0
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00}) // unused
	buf.Write([]byte{0x00, 0x00, 0x00, 0x01}) // named count = 1
	buf.WriteString("STRG")
	binary.Write(&buf, binary.BigEndian, uint32(0x1))  // asset ID
	binary.Write(&buf, binary.BigEndian, uint32(0x40)) // name length, overruns
	buf.WriteString("te")
	_, err := DecodePAK(buf.Bytes())
	if !errors.Is(err, ErrTruncatedPayload) {
		t.Fatalf("expected ErrTruncatedPayload, got %v", err)
	}
}

func TestDecodePAK_MissingResourceCount(t *testing.T) {
	b := []byte{
		0x00, 0x02, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // named count = 0, then nothing
	}
	_, err := DecodePAK(b)
	if !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestDecodePAK_TruncatedResourcePayload(t *testing.T) {
	p := samplePAK(t)
	b, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// Cutting the archive after the directory leaves every declared payload
	// range dangling.
	dir := p.directorySize()
	_, err = DecodePAK(b[:dir+padTo(dir)])
	if !errors.Is(err, ErrTruncatedPayload) {
		t.Fatalf("expected ErrTruncatedPayload, got %v", err)
	}
}

func TestDecodeSTRG_ShortHeader(t *testing.T) {
	_, err := DecodeSTRG(make([]byte, 8))
	if !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestDecodeSTRG_TruncatedLanguageTable(t *testing.T) {
	s := sampleSTRG(t)
	b, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// FREN's declared range ends at byte 101; cutting the buffer short of
	// that leaves it dangling.
	_, err = DecodeSTRG(b[:100])
	if !errors.Is(err, ErrTruncatedPayload) {
		t.Fatalf("expected ErrTruncatedPayload, got %v", err)
	}
}

func TestDecodeSTRG_MissingTerminator(t *testing.T) {
	s := sampleSTRG(t)
	b, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// ENGL's table spans [65:81] within the payload: a 4-byte offset array,
	// ten bytes of "hello", then the double-zero sentinel. Stomp the
	// sentinel so the scan runs off the end of the table.
	b[79], b[80] = 0xAB, 0xAB
	_, err = DecodeSTRG(b)
	if !errors.Is(err, ErrMissingTerminator) {
		t.Fatalf("expected ErrMissingTerminator, got %v", err)
	}
}

func TestDecodeSTRG_NameMissingTerminator(t *testing.T) {
	s := sampleSTRG(t)
	b, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// The name region is the tail of the name table; zap every zero byte
	// from the name's start through the end of the payload so no sentinel
	// remains anywhere ahead of the scan.
	nameStart := strgHeaderSize + 2*languageEntrySize + nameTableHeaderSize + nameEntrySize
	for i := nameStart; i < len(b); i++ {
		if b[i] == 0 {
			b[i] = 0xAB
		}
	}
	_, err = DecodeSTRG(b)
	if !errors.Is(err, ErrMissingTerminator) {
		t.Fatalf("expected ErrMissingTerminator, got %v", err)
	}
}

func TestDecodeSTRG_NameEntriesOverrun(t *testing.T) {
	s := sampleSTRG(t)
	b, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// Inflate the stored name-entry count far past the buffer.
	countOff := strgHeaderSize + 2*languageEntrySize
	binary.BigEndian.PutUint32(b[countOff:countOff+4], 1<<24)
	_, err = DecodeSTRG(b)
	if !errors.Is(err, ErrTruncatedPayload) {
		t.Fatalf("expected ErrTruncatedPayload, got %v", err)
	}
}

package retropak

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"golang.org/x/text/encoding/unicode"
)

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func encodeUTF16(s string) ([]byte, error) {
	return utf16be.NewEncoder().Bytes([]byte(s))
}

func decodeUTF16(b []byte) (string, error) {
	out, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// utf16Len is the encoded byte length of s, sentinel excluded. The encoder
// cannot fail on a Go string: UTF-16 represents every rune, and invalid
// UTF-8 bytes decode as U+FFFD before encoding, so the discarded error is
// always nil and this always agrees with what encodeUTF16 emits.
func utf16Len(s string) int {
	b, _ := encodeUTF16(s)
	return len(b)
}

// NameEntry maps a human-readable name to a string index. Offset locates
// the name's null-terminated bytes relative to the end of the name table's
// 8-byte header.
type NameEntry struct {
	Offset      uint32
	StringIndex uint32
}

// NameTable maps names to string indices within a STRG. Entries and Names
// are index-parallel. Size is the byte size of the entry and name region as
// stored at decode time, which delimits the table within the payload; on
// encode the field is recomputed from Entries and Names rather than
// trusted.
type NameTable struct {
	Size    uint32
	Entries []NameEntry
	Names   []string
}

// readNameTable decodes a name table from the start of b. The slice may
// extend past the table; the stored size field delimits it. Name scans use
// a single zero byte as sentinel and 8-bit-clean ASCII decoding.
func readNameTable(b []byte, limits Limits) (NameTable, int, error) {
	if len(b) < nameTableHeaderSize {
		return NameTable{}, 0, fmt.Errorf("%w: name table", ErrMalformedHeader)
	}
	count := binary.BigEndian.Uint32(b[0:4])
	size := binary.BigEndian.Uint32(b[4:8])
	if uint64(nameTableHeaderSize)+uint64(count)*nameEntrySize > uint64(len(b)) {
		return NameTable{}, 0, fmt.Errorf("%w: name table entries", ErrTruncatedPayload)
	}
	entries := make([]NameEntry, count)
	off := nameTableHeaderSize
	for i := range entries {
		e, err := readNameEntry(b[off:])
		if err != nil {
			return NameTable{}, 0, err
		}
		entries[i] = e
		off += nameEntrySize
	}
	names := make([]string, count)
	for i, e := range entries {
		pos := uint64(nameTableHeaderSize) + uint64(e.Offset)
		if pos >= uint64(len(b)) {
			return NameTable{}, 0, fmt.Errorf("%w: name %d offset", ErrTruncatedPayload, i)
		}
		end := bytes.IndexByte(b[pos:], 0)
		if end < 0 {
			return NameTable{}, 0, fmt.Errorf("%w: name %d", ErrMissingTerminator, i)
		}
		if uint32(end) > limits.MaxNameLength {
			return NameTable{}, 0, fmt.Errorf("%w: name %d of %d bytes", ErrLimitExceeded, i, end)
		}
		names[i] = string(b[pos : pos+uint64(end)])
	}
	consumed := nameTableHeaderSize + int(size)
	if consumed > len(b) {
		return NameTable{}, 0, fmt.Errorf("%w: name table size", ErrTruncatedPayload)
	}
	return NameTable{Size: size, Entries: entries, Names: names}, consumed, nil
}

func (t NameTable) appendTo(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(t.Entries)))
	dst = binary.BigEndian.AppendUint32(dst, uint32(t.encodedSize()-nameTableHeaderSize))
	for _, e := range t.Entries {
		dst = appendNameEntry(dst, e)
	}
	for _, name := range t.Names {
		dst = append(dst, name...)
		dst = append(dst, 0)
	}
	return dst
}

func (t NameTable) encodedSize() int {
	n := nameTableHeaderSize + nameEntrySize*len(t.Entries)
	for _, name := range t.Names {
		n += len(name) + 1
	}
	return n
}

// StringIndex resolves a name to its string index.
func (t NameTable) StringIndex(name string) (int, error) {
	for i, n := range t.Names {
		if n == name {
			return int(t.Entries[i].StringIndex), nil
		}
	}
	return 0, fmt.Errorf("%w: name %q", ErrUnknownIdentifier, name)
}

// StringTable holds one language's strings. Offsets and Strings are
// index-parallel; each offset is relative to the start of the table
// (the offset array included). Strings are UTF-16BE with a double-zero
// terminator, and on encode they are emitted in ascending-offset order
// rather than index order, preserving the original layout quirk.
type StringTable struct {
	Offsets []uint32
	Strings []string
}

func readStringTable(b []byte, stringCount int) (*StringTable, error) {
	if uint64(stringCount)*4 > uint64(len(b)) {
		return nil, fmt.Errorf("%w: string offsets", ErrTruncatedPayload)
	}
	offsets := make([]uint32, stringCount)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint32(b[i*4 : i*4+4])
	}
	strings := make([]string, stringCount)
	for i, off := range offsets {
		if uint64(off) >= uint64(len(b)) {
			return nil, fmt.Errorf("%w: string %d offset", ErrTruncatedPayload, i)
		}
		end := bytes.Index(b[off:], []byte{0, 0})
		if end < 0 {
			return nil, fmt.Errorf("%w: string %d", ErrMissingTerminator, i)
		}
		s, err := decodeUTF16(b[off : int(off)+end])
		if err != nil {
			return nil, fmt.Errorf("retropak: string %d: %w", i, err)
		}
		strings[i] = s
	}
	return &StringTable{Offsets: offsets, Strings: strings}, nil
}

// Encode serializes the table: the offset array, then the strings sorted by
// ascending stored offset.
func (t *StringTable) Encode() ([]byte, error) {
	dst := make([]byte, 0, t.EncodedSize())
	for _, off := range t.Offsets {
		dst = binary.BigEndian.AppendUint32(dst, off)
	}
	order := make([]int, len(t.Strings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if t.Offsets[order[a]] != t.Offsets[order[b]] {
			return t.Offsets[order[a]] < t.Offsets[order[b]]
		}
		return t.Strings[order[a]] < t.Strings[order[b]]
	})
	for _, i := range order {
		b, err := encodeUTF16(t.Strings[i])
		if err != nil {
			return nil, fmt.Errorf("retropak: string %d: %w", i, err)
		}
		dst = append(dst, b...)
		dst = append(dst, 0, 0)
	}
	return dst, nil
}

func (t *StringTable) EncodedSize() int {
	n := 4 * len(t.Offsets)
	for _, s := range t.Strings {
		n += utf16Len(s) + 2
	}
	return n
}

// Replace returns a copy of the table with the string at index swapped for
// s. Stored offsets of every string after index shift by the UTF-16 size
// delta; offsets at or before index are untouched. This assumes offsets
// ascend with index, which the decoder does not verify; on a table whose
// offsets are not monotonic the shifted offsets will be wrong.
func (t *StringTable) Replace(index int, s string) (*StringTable, error) {
	if index < 0 || index >= len(t.Strings) {
		return nil, fmt.Errorf("%w: string index %d", ErrIndexOutOfRange, index)
	}
	delta := utf16Len(s) - utf16Len(t.Strings[index])
	offsets := make([]uint32, len(t.Offsets))
	copy(offsets, t.Offsets)
	for j := index + 1; j < len(offsets); j++ {
		offsets[j] = uint32(int64(offsets[j]) + int64(delta))
	}
	strings := make([]string, len(t.Strings))
	copy(strings, t.Strings)
	strings[index] = s
	return &StringTable{Offsets: offsets, Strings: strings}, nil
}

package retropak

import (
	"encoding/binary"
	"fmt"
)

// padTo returns the number of filler bytes needed so n+padTo(n) is a
// multiple of the 32-byte alignment boundary. Returns 0 if n is already
// aligned.
func padTo(n int) int {
	return (alignment - n%alignment) % alignment
}

func appendPad(dst []byte, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, padByte)
	}
	return dst
}

func checkTag(tag string) error {
	if len(tag) != 4 {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	return nil
}

func readNamedResourceEntry(b []byte, maxNameLen uint32) (NamedResourceEntry, int, error) {
	if len(b) < namedEntrySize {
		return NamedResourceEntry{}, 0, fmt.Errorf("%w: named resource entry", ErrMalformedHeader)
	}
	nameLen := binary.BigEndian.Uint32(b[8:12])
	if nameLen > maxNameLen {
		return NamedResourceEntry{}, 0, fmt.Errorf("%w: name of %d bytes", ErrLimitExceeded, nameLen)
	}
	if uint64(namedEntrySize)+uint64(nameLen) > uint64(len(b)) {
		return NamedResourceEntry{}, 0, fmt.Errorf("%w: named resource entry name", ErrTruncatedPayload)
	}
	e := NamedResourceEntry{
		Type:    string(b[0:4]),
		AssetID: binary.BigEndian.Uint32(b[4:8]),
		Name:    string(b[namedEntrySize : namedEntrySize+int(nameLen)]),
	}
	return e, namedEntrySize + int(nameLen), nil
}

func appendNamedResourceEntry(dst []byte, e NamedResourceEntry) ([]byte, error) {
	if err := checkTag(e.Type); err != nil {
		return nil, err
	}
	dst = append(dst, e.Type...)
	dst = binary.BigEndian.AppendUint32(dst, e.AssetID)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(e.Name)))
	return append(dst, e.Name...), nil
}

func (e NamedResourceEntry) encodedSize() int { return namedEntrySize + len(e.Name) }

func readResourceEntry(b []byte) (ResourceEntry, error) {
	if len(b) < resourceEntrySize {
		return ResourceEntry{}, fmt.Errorf("%w: resource entry", ErrMalformedHeader)
	}
	return ResourceEntry{
		Compressed: binary.BigEndian.Uint32(b[0:4]) != 0,
		Type:       string(b[4:8]),
		AssetID:    binary.BigEndian.Uint32(b[8:12]),
		Size:       binary.BigEndian.Uint32(b[12:16]),
		Offset:     binary.BigEndian.Uint32(b[16:20]),
	}, nil
}

func appendResourceEntry(dst []byte, e ResourceEntry) ([]byte, error) {
	if err := checkTag(e.Type); err != nil {
		return nil, err
	}
	var compressed uint32
	if e.Compressed {
		compressed = 1
	}
	dst = binary.BigEndian.AppendUint32(dst, compressed)
	dst = append(dst, e.Type...)
	dst = binary.BigEndian.AppendUint32(dst, e.AssetID)
	dst = binary.BigEndian.AppendUint32(dst, e.Size)
	return binary.BigEndian.AppendUint32(dst, e.Offset), nil
}

func readLanguageEntry(b []byte) (LanguageEntry, error) {
	if len(b) < languageEntrySize {
		return LanguageEntry{}, fmt.Errorf("%w: language entry", ErrMalformedHeader)
	}
	return LanguageEntry{
		Language:      string(b[0:4]),
		StringsOffset: binary.BigEndian.Uint32(b[4:8]),
		StringsSize:   binary.BigEndian.Uint32(b[8:12]),
	}, nil
}

func appendLanguageEntry(dst []byte, e LanguageEntry) ([]byte, error) {
	if err := checkTag(e.Language); err != nil {
		return nil, err
	}
	dst = append(dst, e.Language...)
	dst = binary.BigEndian.AppendUint32(dst, e.StringsOffset)
	return binary.BigEndian.AppendUint32(dst, e.StringsSize), nil
}

func readNameEntry(b []byte) (NameEntry, error) {
	if len(b) < nameEntrySize {
		return NameEntry{}, fmt.Errorf("%w: name entry", ErrMalformedHeader)
	}
	return NameEntry{
		Offset:      binary.BigEndian.Uint32(b[0:4]),
		StringIndex: binary.BigEndian.Uint32(b[4:8]),
	}, nil
}

func appendNameEntry(dst []byte, e NameEntry) []byte {
	dst = binary.BigEndian.AppendUint32(dst, e.Offset)
	return binary.BigEndian.AppendUint32(dst, e.StringIndex)
}

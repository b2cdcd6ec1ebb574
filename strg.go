package retropak

import (
	"encoding/binary"
	"fmt"
)

// LanguageEntry locates one language's string table. StringsOffset is
// relative to the start of the string-table region, which begins
// immediately after the name table; StringsSize is the table's byte size.
type LanguageEntry struct {
	Language      string // 4-character language tag, e.g. "ENGL"
	StringsOffset uint32
	StringsSize   uint32
}

// STRG is a string-table resource: per-language tables of localized UTF-16
// strings plus a name table mapping human-readable names to string indices.
// Languages and Tables are index-parallel, and every table holds exactly
// StringCount strings.
//
// STRG values are immutable: edit operations return a new instance with all
// derived lookups rebuilt. Each edit rebuilds them from scratch, so a chain
// of edits costs O(languages+strings) per step.
type STRG struct {
	Magic       uint32
	Version     uint32
	StringCount uint32
	Languages   []LanguageEntry
	Names       NameTable
	Tables      []*StringTable

	byLanguage map[string]int
}

// NewSTRG builds a STRG from already-decoded parts. Languages and tables
// must be index-parallel.
func NewSTRG(version, stringCount uint32, languages []LanguageEntry, names NameTable, tables []*StringTable) (*STRG, error) {
	if len(languages) != len(tables) {
		return nil, fmt.Errorf("retropak: %d language entries but %d string tables", len(languages), len(tables))
	}
	return newSTRG(STRGMagic, version, stringCount, languages, names, tables), nil
}

func newSTRG(magic, version, stringCount uint32, languages []LanguageEntry, names NameTable, tables []*StringTable) *STRG {
	s := &STRG{
		Magic:       magic,
		Version:     version,
		StringCount: stringCount,
		Languages:   languages,
		Names:       names,
		Tables:      tables,
		byLanguage:  make(map[string]int, len(languages)),
	}
	for i, lang := range languages {
		s.byLanguage[lang.Language] = i
	}
	return s
}

// DecodeSTRG parses a string-table resource payload. Header counts are
// checked against Limits before any dependent allocation; with no options
// the defaults apply.
func DecodeSTRG(data []byte, opts ...ReadOption) (*STRG, error) {
	cfg := newReadConfig(opts)

	if len(data) < strgHeaderSize {
		return nil, fmt.Errorf("%w: STRG header", ErrMalformedHeader)
	}
	magic := binary.BigEndian.Uint32(data[0:4])
	version := binary.BigEndian.Uint32(data[4:8])
	languageCount := binary.BigEndian.Uint32(data[8:12])
	stringCount := binary.BigEndian.Uint32(data[12:16])

	if languageCount > cfg.limits.MaxLanguages {
		return nil, fmt.Errorf("%w: %d languages", ErrLimitExceeded, languageCount)
	}
	if stringCount > cfg.limits.MaxStringsPerLanguage {
		return nil, fmt.Errorf("%w: %d strings per language", ErrLimitExceeded, stringCount)
	}
	if uint64(strgHeaderSize)+uint64(languageCount)*languageEntrySize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: language entries", ErrTruncatedPayload)
	}
	languages := make([]LanguageEntry, languageCount)
	off := strgHeaderSize
	for i := range languages {
		e, err := readLanguageEntry(data[off:])
		if err != nil {
			return nil, err
		}
		languages[i] = e
		off += languageEntrySize
	}

	names, nameLen, err := readNameTable(data[off:], cfg.limits)
	if err != nil {
		return nil, err
	}
	base := off + nameLen

	tables := make([]*StringTable, languageCount)
	for i, lang := range languages {
		start := uint64(base) + uint64(lang.StringsOffset)
		end := start + uint64(lang.StringsSize)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: language %q string table", ErrTruncatedPayload, lang.Language)
		}
		t, err := readStringTable(data[start:end], int(stringCount))
		if err != nil {
			return nil, err
		}
		tables[i] = t
	}

	return newSTRG(magic, version, stringCount, languages, names, tables), nil
}

// AssetType implements [Resource].
func (s *STRG) AssetType() string { return STRGAssetType }

// EncodedSize implements [Resource]. The size includes the trailing
// alignment padding, which is part of the STRG payload itself.
func (s *STRG) EncodedSize() int {
	n := strgHeaderSize + languageEntrySize*len(s.Languages) + s.Names.encodedSize()
	for _, t := range s.Tables {
		n += t.EncodedSize()
	}
	return n + padTo(n)
}

// Encode implements [Resource]: header, language entries, name table,
// string tables in language order, then padding to the 32-byte boundary.
// Language entry offsets and sizes are written as stored; they are
// maintained by the edit operations, not recomputed here.
func (s *STRG) Encode() ([]byte, error) {
	dst := make([]byte, 0, s.EncodedSize())
	dst = binary.BigEndian.AppendUint32(dst, s.Magic)
	dst = binary.BigEndian.AppendUint32(dst, s.Version)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(s.Languages)))
	dst = binary.BigEndian.AppendUint32(dst, s.StringCount)
	var err error
	for _, lang := range s.Languages {
		if dst, err = appendLanguageEntry(dst, lang); err != nil {
			return nil, err
		}
	}
	dst = s.Names.appendTo(dst)
	for _, t := range s.Tables {
		b, err := t.Encode()
		if err != nil {
			return nil, err
		}
		dst = append(dst, b...)
	}
	return appendPad(dst, padTo(len(dst))), nil
}

// StringTableByLanguage returns the string table for a language tag.
func (s *STRG) StringTableByLanguage(language string) (*StringTable, error) {
	i, ok := s.byLanguage[language]
	if !ok {
		return nil, fmt.Errorf("%w: language %q", ErrUnknownIdentifier, language)
	}
	return s.Tables[i], nil
}

// StringIndexByName resolves a human-readable name through the name table.
func (s *STRG) StringIndexByName(name string) (int, error) {
	return s.Names.StringIndex(name)
}

// String resolves name through the name table and returns that string in
// the given language.
func (s *STRG) String(language, name string) (string, error) {
	index, err := s.StringIndexByName(name)
	if err != nil {
		return "", err
	}
	t, err := s.StringTableByLanguage(language)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(t.Strings) {
		return "", fmt.Errorf("%w: string index %d for name %q", ErrIndexOutOfRange, index, name)
	}
	return t.Strings[index], nil
}

// ReplaceStringTable returns a new STRG with one language's string table
// swapped out. The language's StringsSize becomes the new table's encoded
// size and the StringsOffset of every later language shifts by the size
// delta. The name table and other languages' contents are untouched.
func (s *STRG) ReplaceStringTable(language string, table *StringTable) (*STRG, error) {
	index, ok := s.byLanguage[language]
	if !ok {
		return nil, fmt.Errorf("%w: language %q", ErrUnknownIdentifier, language)
	}
	newSize := table.EncodedSize()
	delta := newSize - int(s.Languages[index].StringsSize)

	languages := make([]LanguageEntry, len(s.Languages))
	copy(languages, s.Languages)
	languages[index].StringsSize = uint32(newSize)
	for j := index + 1; j < len(languages); j++ {
		languages[j].StringsOffset = uint32(int64(languages[j].StringsOffset) + int64(delta))
	}

	tables := make([]*StringTable, len(s.Tables))
	copy(tables, s.Tables)
	tables[index] = table

	return newSTRG(s.Magic, s.Version, s.StringCount, languages, s.Names, tables), nil
}

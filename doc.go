// Package retropak implements the PAK archive container format used by a
// GameCube-era game engine, together with its STRG string-table resource.
//
// A PAK is an ordered list of typed, named resources located through a
// directory of offset/size records. A STRG resource is itself a nested
// container: per-language tables of UTF-16 strings addressed through
// secondary offset tables, plus a name table mapping human-readable names
// to string indices.
//
// # File Format Overview
//
// A PAK archive consists of (big-endian throughout):
//   - A 12-byte header with version numbers and the alias-entry count
//   - A table of named-resource aliases (variable-length entries)
//   - A directory of fixed 20-byte resource entries
//   - Padding to a 32-byte boundary (filler 0xFF)
//   - Each resource's payload, individually padded to 32 bytes
//
// # Basic Usage
//
// To read an archive and fetch a string table:
//
//	f, _ := os.Open("metroid1.pak")
//	defer f.Close()
//	pak, err := retropak.Decode(f)
//	...
//	res, err := pak.ResourceByAssetID(0x95B1A23C)
//	strg := res.(*retropak.STRG)
//	table, err := strg.StringTableByLanguage("ENGL")
//
// Edits never mutate a container in place: Insert, Remove, Replace and
// their STRG counterparts return a new value with every dependent offset,
// size, and padding recomputed, so prior snapshots stay valid and
// re-encoding an unmodified decode is byte-identical.
//
// Resource payload types beyond STRG are carried as opaque [RawResource]
// values unless a codec for their type tag (or well-known asset ID) is
// registered; see [Registry]. Edits always produce uncompressed directory
// entries; resource compression is unsupported.
//
// # Security Considerations
//
// Decoding validates every declared offset/size range against the buffer
// and checks declared counts against configurable [Limits] before
// allocating, so hostile headers fail with [ErrLimitExceeded] or
// [ErrTruncatedPayload] instead of exhausting memory.
package retropak

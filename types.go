package retropak

const (
	// alignment is the only alignment boundary in the format. The directory
	// region of a PAK and the tail of a STRG payload are padded to it, and
	// every resource payload is individually padded to it.
	alignment = 32

	// padByte fills alignment padding. The value has no semantic meaning.
	padByte = 0xFF

	pakHeaderSize     = 12 // major, minor, unused, named count
	namedEntrySize    = 12 // tag, asset ID, name length (name follows)
	resourceEntrySize = 20 // compressed flag, tag, asset ID, size, offset
	strgHeaderSize    = 16 // magic, version, language count, string count
	languageEntrySize = 12 // language tag, strings offset, strings size
	nameEntrySize     = 8  // name offset, string index

	nameTableHeaderSize = 8 // entry count, region size
)

const (
	// STRGMagic is the magic number of a string-table resource payload.
	STRGMagic uint32 = 0x87654321

	// STRGAssetType is the type tag under which string-table resources are
	// recorded in a PAK directory.
	STRGAssetType = "STRG"

	// ScanTreeAssetID is the well-known identifier of the scan-tree asset.
	// A directory entry carrying this identifier is dispatched by ID, never
	// by its declared type tag. See [Registry].
	ScanTreeAssetID uint32 = 0x95B61279
)

// NamedResourceEntry is a human-readable alias for a resource. The alias
// table is not load-bearing: nothing else in the archive refers to it.
type NamedResourceEntry struct {
	Type    string // 4-character type tag
	AssetID uint32
	Name    string
}

// ResourceEntry is one directory record of a PAK. Size is the unpadded
// encoded size of the payload; Offset is absolute from the start of the
// archive.
type ResourceEntry struct {
	Compressed bool
	Type       string // 4-character type tag
	AssetID    uint32
	Size       uint32
	Offset     uint32
}

// Resource is a decoded PAK payload. Implementations must round-trip:
// EncodedSize reports exactly len of the Encode result, without any
// PAK-level alignment padding.
type Resource interface {
	// AssetType returns the 4-character type tag of the payload.
	AssetType() string
	// EncodedSize returns the serialized length in bytes.
	EncodedSize() int
	// Encode serializes the payload.
	Encode() ([]byte, error)
}

// RawResource carries the payload bytes of an asset type this package does
// not decode. It round-trips exactly and never inspects its contents.
type RawResource struct {
	Type string
	Data []byte
}

func (r RawResource) AssetType() string { return r.Type }

func (r RawResource) EncodedSize() int { return len(r.Data) }

func (r RawResource) Encode() ([]byte, error) { return r.Data, nil }

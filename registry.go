package retropak

// CodecFunc decodes one resource payload. The data slice belongs to the
// caller; implementations that retain bytes must copy them.
type CodecFunc func(data []byte) (Resource, error)

// Registry maps PAK directory entries to resource codecs.
//
// Dispatch order when resolving an entry:
//  1. a codec registered for the entry's exact asset ID
//  2. a codec registered for the entry's type tag
//  3. a raw pass-through codec that stores the payload bytes untouched
//
// The ID branch exists because the scan-tree asset is distinguished by a
// well-known identifier rather than its declared type tag; register a
// scan-tree codec under [ScanTreeAssetID] to receive it.
type Registry struct {
	byType map[string]CodecFunc
	byID   map[uint32]CodecFunc
}

// NewRegistry returns an empty registry. Every entry resolved against it
// falls back to the raw pass-through codec.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[string]CodecFunc),
		byID:   make(map[uint32]CodecFunc),
	}
}

// DefaultRegistry returns a fresh registry with the built-in codecs
// registered: string-table payloads decode as [*STRG] under the default
// Limits. Callers may extend the returned registry and pass it to Decode
// via [WithRegistry]; to decode string tables under custom caps, register
// a closure over [DecodeSTRG] with [WithReadLimits].
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterType(STRGAssetType, func(data []byte) (Resource, error) {
		return DecodeSTRG(data)
	})
	return r
}

// RegisterType installs fn as the codec for a 4-character type tag,
// replacing any previous registration.
func (r *Registry) RegisterType(tag string, fn CodecFunc) {
	r.byType[tag] = fn
}

// RegisterID installs fn as the codec for an exact asset ID. ID
// registrations take priority over type-tag registrations.
func (r *Registry) RegisterID(assetID uint32, fn CodecFunc) {
	r.byID[assetID] = fn
}

func (r *Registry) resolve(tag string, assetID uint32) CodecFunc {
	if fn, ok := r.byID[assetID]; ok {
		return fn
	}
	if fn, ok := r.byType[tag]; ok {
		return fn
	}
	return rawCodec(tag)
}

// rawCodec builds the pass-through fallback for an unrecognized entry.
// Unknown asset types degrade gracefully instead of failing the decode.
func rawCodec(tag string) CodecFunc {
	return func(data []byte) (Resource, error) {
		buf := make([]byte, len(data))
		copy(buf, data)
		return RawResource{Type: tag, Data: buf}, nil
	}
}

// defaultRegistry backs decodes that supply no WithRegistry option. It is
// read-only after initialization.
var defaultRegistry *Registry

func init() {
	defaultRegistry = DefaultRegistry()
}

package retropak

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// PAK is an archive of typed, named resources. NamedEntries is the alias
// table; Entries and Resources are index-parallel, Entries[i] describing
// the payload decoded into Resources[i].
//
// PAK values are immutable: every edit operation returns a new instance
// with the asset-ID index rebuilt. Each edit reconstructs the derived index
// and shifts directory offsets, so a chain of edits costs O(resources) per
// step.
type PAK struct {
	MajorVersion uint16
	MinorVersion uint16
	Unused       uint32
	NamedEntries []NamedResourceEntry
	Entries      []ResourceEntry
	Resources    []Resource

	byAssetID map[uint32]int
}

// NewPAK builds a PAK from already-decoded parts. Entries and resources
// must be index-parallel.
func NewPAK(major, minor uint16, named []NamedResourceEntry, entries []ResourceEntry, resources []Resource) (*PAK, error) {
	if len(entries) != len(resources) {
		return nil, fmt.Errorf("retropak: %d directory entries but %d resources", len(entries), len(resources))
	}
	return newPAK(major, minor, 0, named, entries, resources), nil
}

func newPAK(major, minor uint16, unused uint32, named []NamedResourceEntry, entries []ResourceEntry, resources []Resource) *PAK {
	p := &PAK{
		MajorVersion: major,
		MinorVersion: minor,
		Unused:       unused,
		NamedEntries: named,
		Entries:      entries,
		Resources:    resources,
		byAssetID:    make(map[uint32]int, len(entries)),
	}
	for i, e := range entries {
		p.byAssetID[e.AssetID] = i
	}
	return p
}

// Decode reads a whole archive from r and parses it. It reads at most
// Limits.MaxArchiveSize bytes and returns ErrLimitExceeded beyond that.
func Decode(r io.Reader, opts ...ReadOption) (*PAK, error) {
	cfg := newReadConfig(opts)
	limit := cfg.limits.MaxArchiveSize
	// LimitReader counts in int64; a larger cap cannot overflow the read
	// budget since a slice cannot exceed MaxInt64 bytes anyway.
	if limit > math.MaxInt64-1 {
		limit = math.MaxInt64 - 1
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > limit {
		return nil, fmt.Errorf("%w: archive larger than %d bytes", ErrLimitExceeded, limit)
	}
	return DecodePAK(data, opts...)
}

// DecodePAK parses an archive held in memory. Resource payloads are handed
// to the configured codec registry; payload types without a registered
// codec decode as [RawResource].
func DecodePAK(data []byte, opts ...ReadOption) (*PAK, error) {
	cfg := newReadConfig(opts)

	if len(data) < pakHeaderSize {
		return nil, fmt.Errorf("%w: PAK header", ErrMalformedHeader)
	}
	major := binary.BigEndian.Uint16(data[0:2])
	minor := binary.BigEndian.Uint16(data[2:4])
	unused := binary.BigEndian.Uint32(data[4:8])
	namedCount := binary.BigEndian.Uint32(data[8:12])
	if namedCount > cfg.limits.MaxNamedEntries {
		return nil, fmt.Errorf("%w: %d named entries", ErrLimitExceeded, namedCount)
	}

	off := pakHeaderSize
	named := make([]NamedResourceEntry, namedCount)
	for i := range named {
		// Entry length is 12 + name length, so each start is computed from
		// the previous entry's consumed size.
		e, n, err := readNamedResourceEntry(data[off:], cfg.limits.MaxNameLength)
		if err != nil {
			return nil, err
		}
		named[i] = e
		off += n
	}

	if len(data)-off < 4 {
		return nil, fmt.Errorf("%w: resource count", ErrMalformedHeader)
	}
	resourceCount := binary.BigEndian.Uint32(data[off : off+4])
	off += 4
	if resourceCount > cfg.limits.MaxResources {
		return nil, fmt.Errorf("%w: %d resources", ErrLimitExceeded, resourceCount)
	}
	if uint64(off)+uint64(resourceCount)*resourceEntrySize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: resource entries", ErrMalformedHeader)
	}
	entries := make([]ResourceEntry, resourceCount)
	for i := range entries {
		e, err := readResourceEntry(data[off:])
		if err != nil {
			return nil, err
		}
		entries[i] = e
		off += resourceEntrySize
	}

	resources := make([]Resource, resourceCount)
	for i, e := range entries {
		if e.Size > cfg.limits.MaxResourceSize {
			return nil, fmt.Errorf("%w: resource %08X size %d", ErrLimitExceeded, e.AssetID, e.Size)
		}
		end := uint64(e.Offset) + uint64(e.Size)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: resource %08X at [%d:%d]", ErrTruncatedPayload, e.AssetID, e.Offset, end)
		}
		decode := cfg.registry.resolve(e.Type, e.AssetID)
		res, err := decode(data[e.Offset:end])
		if err != nil {
			return nil, fmt.Errorf("retropak: resource %08X: %w", e.AssetID, err)
		}
		resources[i] = res
	}

	return newPAK(major, minor, unused, named, entries, resources), nil
}

// Encode serializes p to w.
func Encode(w io.Writer, p *PAK) error {
	b, err := p.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// directorySize is the unpadded byte size of everything before the resource
// payload region, for a PAK with the given alias table and resource count.
func directorySize(named []NamedResourceEntry, resourceCount int) int {
	n := pakHeaderSize
	for _, e := range named {
		n += e.encodedSize()
	}
	return n + 4 + resourceCount*resourceEntrySize
}

func (p *PAK) directorySize() int {
	return directorySize(p.NamedEntries, len(p.Entries))
}

// layoutEntries derives the canonical directory: each entry's Size is the
// resource's current unpadded encoded size and each Offset is the padded
// directory size plus the 32-byte-aligned sizes of all earlier resources.
func (p *PAK) layoutEntries() []ResourceEntry {
	dir := p.directorySize()
	offset := dir + padTo(dir)
	entries := make([]ResourceEntry, len(p.Entries))
	for i, e := range p.Entries {
		size := p.Resources[i].EncodedSize()
		e.Size = uint32(size)
		e.Offset = uint32(offset)
		entries[i] = e
		offset += size + padTo(size)
	}
	return entries
}

// EncodedSize returns the total serialized length of the archive.
func (p *PAK) EncodedSize() int {
	dir := p.directorySize()
	n := dir + padTo(dir)
	for _, r := range p.Resources {
		size := r.EncodedSize()
		n += size + padTo(size)
	}
	return n
}

// Encode serializes the archive: header, alias table, directory, padding to
// the 32-byte boundary, then each resource individually padded to 32 bytes.
// Directory offsets and sizes are never taken from a prior decode; they are
// recomputed from the current resource list on every encode.
func (p *PAK) Encode() ([]byte, error) {
	dst := make([]byte, 0, p.EncodedSize())
	dst = binary.BigEndian.AppendUint16(dst, p.MajorVersion)
	dst = binary.BigEndian.AppendUint16(dst, p.MinorVersion)
	dst = binary.BigEndian.AppendUint32(dst, p.Unused)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(p.NamedEntries)))
	var err error
	for _, e := range p.NamedEntries {
		if dst, err = appendNamedResourceEntry(dst, e); err != nil {
			return nil, err
		}
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(p.Entries)))
	for _, e := range p.layoutEntries() {
		if dst, err = appendResourceEntry(dst, e); err != nil {
			return nil, err
		}
	}
	dst = appendPad(dst, padTo(len(dst)))
	for i, r := range p.Resources {
		b, err := r.Encode()
		if err != nil {
			return nil, fmt.Errorf("retropak: resource %08X: %w", p.Entries[i].AssetID, err)
		}
		dst = append(dst, b...)
		dst = appendPad(dst, padTo(len(b)))
	}
	return dst, nil
}

// ResourceByAssetID returns the resource recorded under an asset ID.
func (p *PAK) ResourceByAssetID(assetID uint32) (Resource, error) {
	i, ok := p.byAssetID[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: asset %08X", ErrUnknownIdentifier, assetID)
	}
	return p.Resources[i], nil
}

// NamedResourceByName returns the alias-table entry for a name.
func (p *PAK) NamedResourceByName(name string) (NamedResourceEntry, error) {
	for _, e := range p.NamedEntries {
		if e.Name == name {
			return e, nil
		}
	}
	return NamedResourceEntry{}, fmt.Errorf("%w: name %q", ErrUnknownIdentifier, name)
}

// Insert returns a new PAK with res inserted at index under assetID. The
// new directory entry takes the offset of the entry it displaces (or, when
// appending, the previous last entry's offset plus size), and every later
// entry's offset grows by the resource's 32-byte-aligned encoded size.
// Inserted entries are always uncompressed; resource compression is
// unsupported.
func (p *PAK) Insert(index int, assetID uint32, res Resource) (*PAK, error) {
	if index < 0 || index > len(p.Resources) {
		return nil, fmt.Errorf("%w: insert at %d of %d", ErrIndexOutOfRange, index, len(p.Resources))
	}
	size := res.EncodedSize()
	aligned := size + padTo(size)

	var offset uint32
	switch {
	case len(p.Entries) == 0:
		dir := directorySize(p.NamedEntries, 1)
		offset = uint32(dir + padTo(dir))
	case index == len(p.Entries):
		last := p.Entries[len(p.Entries)-1]
		offset = last.Offset + last.Size
	default:
		offset = p.Entries[index].Offset
	}

	entry := ResourceEntry{
		Compressed: false,
		Type:       res.AssetType(),
		AssetID:    assetID,
		Size:       uint32(size),
		Offset:     offset,
	}

	entries := make([]ResourceEntry, 0, len(p.Entries)+1)
	entries = append(entries, p.Entries[:index]...)
	entries = append(entries, entry)
	for _, e := range p.Entries[index:] {
		e.Offset += uint32(aligned)
		entries = append(entries, e)
	}

	resources := make([]Resource, 0, len(p.Resources)+1)
	resources = append(resources, p.Resources[:index]...)
	resources = append(resources, res)
	resources = append(resources, p.Resources[index:]...)

	return newPAK(p.MajorVersion, p.MinorVersion, p.Unused, p.NamedEntries, entries, resources), nil
}

// Append returns a new PAK with res appended under assetID.
func (p *PAK) Append(assetID uint32, res Resource) (*PAK, error) {
	return p.Insert(len(p.Resources), assetID, res)
}

// Remove returns a new PAK without the entry/resource pair at index. Every
// later entry's offset shrinks by the removed resource's 32-byte-aligned
// encoded size, making Remove the exact inverse of Insert.
func (p *PAK) Remove(index int) (*PAK, error) {
	if index < 0 || index >= len(p.Resources) {
		return nil, fmt.Errorf("%w: remove at %d of %d", ErrIndexOutOfRange, index, len(p.Resources))
	}
	size := p.Resources[index].EncodedSize()
	aligned := size + padTo(size)

	entries := make([]ResourceEntry, 0, len(p.Entries)-1)
	entries = append(entries, p.Entries[:index]...)
	for _, e := range p.Entries[index+1:] {
		e.Offset -= uint32(aligned)
		entries = append(entries, e)
	}

	resources := make([]Resource, 0, len(p.Resources)-1)
	resources = append(resources, p.Resources[:index]...)
	resources = append(resources, p.Resources[index+1:]...)

	return newPAK(p.MajorVersion, p.MinorVersion, p.Unused, p.NamedEntries, entries, resources), nil
}

// RemoveByAssetID resolves the asset ID to its index, then removes that
// entry.
func (p *PAK) RemoveByAssetID(assetID uint32) (*PAK, error) {
	i, ok := p.byAssetID[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: asset %08X", ErrUnknownIdentifier, assetID)
	}
	return p.Remove(i)
}

// Replace returns a new PAK with the resource at index swapped for res,
// keeping the entry's asset ID. Equivalent to Remove followed by Insert at
// the same position.
func (p *PAK) Replace(index int, res Resource) (*PAK, error) {
	if index < 0 || index >= len(p.Resources) {
		return nil, fmt.Errorf("%w: replace at %d of %d", ErrIndexOutOfRange, index, len(p.Resources))
	}
	assetID := p.Entries[index].AssetID
	q, err := p.Remove(index)
	if err != nil {
		return nil, err
	}
	return q.Insert(index, assetID, res)
}

// ReplaceByAssetID resolves the asset ID to its index, then replaces that
// resource.
func (p *PAK) ReplaceByAssetID(assetID uint32, res Resource) (*PAK, error) {
	i, ok := p.byAssetID[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: asset %08X", ErrUnknownIdentifier, assetID)
	}
	return p.Replace(i, res)
}

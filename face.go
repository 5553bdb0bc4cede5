package shapeplan

import (
	"encoding/binary"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/image/font/sfnt"
)

// Tags of sfnt container versions we accept.
var (
	versionTrueType   = Tag(0x00010000)
	versionOpenType   = T("OTTO")
	versionAppleTrue  = T("true")
	versionCollection = T("ttcf")
)

// Face is an immutable font face: the raw sfnt blob plus its parsed table
// directory. A face anchors the plan cache — every cached plan belongs to
// exactly one face and lives until the face is closed.
//
// Faces start out mutable in principle, but the first plan created against
// a face freezes it for good (see [ShapePlan]); a frozen face is safe for
// unsynchronized concurrent use.
type Face struct {
	data      []byte
	tables    map[Tag]tableRecord
	immutable atomic.Bool

	plans      atomic.Pointer[planNode] // head of the cached-plan list
	shaperData [numBuiltinShapers]faceDataSlot

	sfntOnce sync.Once
	sfntFont *sfnt.Font
	sfntErr  error
}

type tableRecord struct {
	Offset uint32
	Length uint32
}

// faceDataSlot holds the one-time result of a backend's face probe.
type faceDataSlot struct {
	once sync.Once
	data any
	ok   bool
}

// emptyFace is the shared inert face, substituted when plan creation is
// handed a nil face. It has no tables, no backend accepts it beyond the
// fallback, and plans on it are never cached.
var emptyFace = &Face{tables: map[Tag]tableRecord{}}

func init() {
	emptyFace.immutable.Store(true)
}

// EmptyFace returns the shared inert face (never nil).
func EmptyFace() *Face {
	return emptyFace
}

// ParseFace parses the table directory of an OpenType/TrueType font blob.
// The blob is retained, not copied; callers must not mutate it afterwards.
// Font collections (ttcf) are not supported.
func ParseFace(data []byte) (*Face, error) {
	if len(data) < 12 {
		return nil, errShaper("font data too short for sfnt header")
	}
	version := Tag(binary.BigEndian.Uint32(data))
	if version == versionCollection {
		return nil, errShaper("font collections (ttcf) are not supported")
	}
	if version != versionTrueType && version != versionOpenType && version != versionAppleTrue {
		return nil, errShaper("unrecognized sfnt version " + version.String())
	}
	numTables := int(binary.BigEndian.Uint16(data[4:]))
	if len(data) < 12+numTables*16 {
		return nil, errShaper("font table directory truncated")
	}
	face := &Face{
		data:   data,
		tables: make(map[Tag]tableRecord, numTables),
	}
	for i := 0; i < numTables; i++ {
		rec := data[12+i*16:]
		tag := Tag(binary.BigEndian.Uint32(rec))
		offset := binary.BigEndian.Uint32(rec[8:])
		length := binary.BigEndian.Uint32(rec[12:])
		if uint64(offset)+uint64(length) > uint64(len(data)) {
			return nil, errShaper("table " + tag.String() + " exceeds font data bounds")
		}
		face.tables[tag] = tableRecord{Offset: offset, Length: length}
	}
	tracer().Debugf("parsed face with %d tables", numTables)
	return face, nil
}

// LoadFace reads and parses a font file from disk.
func LoadFace(path string) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFace(data)
}

// IsEmpty returns true for the shared inert face.
func (f *Face) IsEmpty() bool {
	return f == nil || f == emptyFace
}

// MakeImmutable freezes the face. Idempotent and safe for concurrent use.
func (f *Face) MakeImmutable() {
	f.immutable.Store(true)
}

// IsImmutable returns true once the face has been frozen.
func (f *Face) IsImmutable() bool {
	return f.immutable.Load()
}

// HasTable returns true if the face's directory lists the given table.
func (f *Face) HasTable(tag Tag) bool {
	_, ok := f.tables[tag]
	return ok
}

// Table returns the raw bytes of a table, or nil if absent.
func (f *Face) Table(tag Tag) []byte {
	rec, ok := f.tables[tag]
	if !ok {
		return nil
	}
	return f.data[rec.Offset : rec.Offset+rec.Length]
}

// TableTags returns the directory's table tags in lexical order.
func (f *Face) TableTags() []Tag {
	tags := make([]Tag, 0, len(f.tables))
	for tag := range f.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// sfnt lazily parses the face blob with x/image's sfnt package. Backends
// use it for nominal glyph mapping; parse failure is tolerated and reported
// to the caller, not fatal to the face.
func (f *Face) sfnt() (*sfnt.Font, error) {
	f.sfntOnce.Do(func() {
		if len(f.data) == 0 {
			f.sfntErr = errShaper("face carries no font data")
			return
		}
		f.sfntFont, f.sfntErr = sfnt.Parse(f.data)
		if f.sfntErr != nil {
			tracer().Infof("face is not sfnt-parsable: %v", f.sfntErr)
		}
	})
	return f.sfntFont, f.sfntErr
}

// CachedPlanCount reports how many plans the face currently caches.
// Diagnostic; the count is a snapshot and may grow concurrently.
func (f *Face) CachedPlanCount() int {
	n := 0
	for node := f.plans.Load(); node != nil; node = node.next {
		n++
	}
	return n
}

// Close releases every cached plan. The face must not be used for shaping
// afterwards. Plans still retained by callers stay valid until their own
// release.
func (f *Face) Close() {
	if f.IsEmpty() {
		return
	}
	head := f.plans.Swap(nil)
	for node := head; node != nil; node = node.next {
		node.plan.Release()
	}
}

// Package fontfix builds minimal synthetic sfnt blobs for tests. The
// fixtures carry a well-formed table directory and layout-table headers
// but no real glyph data; they exercise face parsing and backend probing,
// not actual glyph mapping.
package fontfix

import (
	"encoding/binary"
	"sort"
)

// Table is one synthetic sfnt table.
type Table struct {
	Tag  string
	Data []byte
}

// Build assembles an sfnt blob (version 1.0) from the given tables. Tables
// are laid out in directory order with 4-byte alignment.
func Build(tables []Table) []byte {
	sorted := append([]Table(nil), tables...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	n := len(sorted)
	dirSize := 12 + n*16
	total := dirSize
	offsets := make([]int, n)
	for i, t := range sorted {
		offsets[i] = total
		total += (len(t.Data) + 3) &^ 3
	}

	blob := make([]byte, total)
	binary.BigEndian.PutUint32(blob, 0x00010000)
	binary.BigEndian.PutUint16(blob[4:], uint16(n))
	// searchRange block; ParseFace ignores it but keep it plausible
	entrySelector := uint16(0)
	for 1<<(entrySelector+1) <= n {
		entrySelector++
	}
	searchRange := uint16(1<<entrySelector) * 16
	binary.BigEndian.PutUint16(blob[6:], searchRange)
	binary.BigEndian.PutUint16(blob[8:], entrySelector)
	binary.BigEndian.PutUint16(blob[10:], uint16(n)*16-searchRange)

	for i, t := range sorted {
		rec := blob[12+i*16:]
		copy(rec, (t.Tag + "    ")[:4])
		binary.BigEndian.PutUint32(rec[8:], uint32(offsets[i]))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(t.Data)))
		copy(blob[offsets[i]:], t.Data)
	}
	return blob
}

// Layout returns a minimal GSUB/GPOS table body: version 1.0 with a
// ScriptList of scripts entries and a FeatureList of features entries.
// Offsets point at count-only lists, which is all header-level probing
// reads.
func Layout(scripts, features int) []byte {
	body := make([]byte, 16)
	binary.BigEndian.PutUint32(body, 0x00010000)
	binary.BigEndian.PutUint16(body[4:], 10) // ScriptList offset
	binary.BigEndian.PutUint16(body[6:], 12) // FeatureList offset
	binary.BigEndian.PutUint16(body[8:], 14) // LookupList offset
	binary.BigEndian.PutUint16(body[10:], uint16(scripts))
	binary.BigEndian.PutUint16(body[12:], uint16(features))
	binary.BigEndian.PutUint16(body[14:], 0)
	return body
}

// Cmap returns a placeholder cmap table; backends probing for its
// presence never parse it on the fixture path.
func Cmap() []byte {
	body := make([]byte, 4)
	binary.BigEndian.PutUint16(body, 0) // version
	binary.BigEndian.PutUint16(body[2:], 0)
	return body
}

// LayoutFont is a fixture with a cmap and both layout tables; the
// OpenType backend accepts it.
func LayoutFont() []byte {
	return Build([]Table{
		{Tag: "cmap", Data: Cmap()},
		{Tag: "GSUB", Data: Layout(2, 5)},
		{Tag: "GPOS", Data: Layout(1, 3)},
	})
}

// PlainFont is a fixture with a cmap but no layout tables; only the
// fallback backend accepts it.
func PlainFont() []byte {
	return Build([]Table{
		{Tag: "cmap", Data: Cmap()},
	})
}

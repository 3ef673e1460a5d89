// pvr_region.go - region array walker

package main

// RegionListPtr is one of a region entry's list pointers.
type RegionListPtr struct {
	Empty      bool
	WordOffset uint32
}

// RegionEntry describes one 32x32 screen tile and its object lists.
type RegionEntry struct {
	TileX, TileY int
	ZKeep        bool
	NoWriteout   bool
	Last         bool

	Opaque    RegionListPtr
	OpaqueMod RegionListPtr
	Trans     RegionListPtr
	TransMod  RegionListPtr
	PunchThru RegionListPtr
}

// TileID keys worker routing: (tiley*64 + tilex).
func (e RegionEntry) TileID() int {
	return e.TileY*RegionTileCols + e.TileX
}

func decodeRegionListPtr(word uint32) RegionListPtr {
	return RegionListPtr{
		Empty:      word&RegionPtrEmptyBit != 0,
		WordOffset: word &^ RegionPtrEmptyBit,
	}
}

// WalkRegionArray reads consecutive region entries starting at base,
// advancing 24 bytes (six words, including the punch-through list pointer)
// or 20 bytes (five words, no punch-through list) per entry depending on
// sixWordFormat, and invokes emit for each. Traversal is strictly forward
// and stops after an entry with Last set.
func WalkRegionArray(vram *VRAM, base uint32, sixWordFormat bool, emit func(RegionEntry)) {
	offset := base
	for {
		control := vram.ReadU32(offset)
		entry := RegionEntry{
			TileX:      int((control & RegionTileXMask) >> RegionTileXShift),
			TileY:      int((control & RegionTileYMask) >> RegionTileYShift),
			ZKeep:      control&RegionZKeepBit != 0,
			NoWriteout: control&RegionNoWriteoutBit != 0,
			Last:       control&RegionLastBit != 0,
		}

		entry.Opaque = decodeRegionListPtr(vram.ReadU32(offset + 4))
		entry.OpaqueMod = decodeRegionListPtr(vram.ReadU32(offset + 8))
		entry.Trans = decodeRegionListPtr(vram.ReadU32(offset + 12))
		entry.TransMod = decodeRegionListPtr(vram.ReadU32(offset + 16))

		wordsPerEntry := uint32(20)
		if sixWordFormat {
			entry.PunchThru = decodeRegionListPtr(vram.ReadU32(offset + 20))
			wordsPerEntry = 24
		} else {
			entry.PunchThru = RegionListPtr{Empty: true}
		}

		emit(entry)

		if entry.Last {
			return
		}
		offset += wordsPerEntry
	}
}

// pvr_pcw.go - Parameter Control Word decode and polygon type LUT

package main

// PCW is the decoded Parameter Control Word prefixing every TA command.
type PCW struct {
	ParaType uint32
	ListType uint32
	ObjCtrl  uint32
}

func decodePCW(word uint32) PCW {
	return PCW{
		ParaType: (word >> 29) & 0x7,
		ListType: (word >> 24) & 0x7,
		ObjCtrl:  word & 0xFF,
	}
}

// polyTypeEntry is one cell of the 256-entry polygon type LUT.
type polyTypeEntry struct {
	headerSize64 bool
	vertexSize64 bool
	semanticID   uint8 // PolyInvalid (0xFF) marks the sole invalid combination
}

var polyTypeLUT [256]polyTypeEntry

func init() {
	for ctrl := 0; ctrl < 256; ctrl++ {
		polyTypeLUT[ctrl] = buildPolyTypeEntry(uint32(ctrl))
	}
}

// buildPolyTypeEntry reproduces verbatim the two-function decision tree
// poly_header_type_size/poly_data_type_id are built from: header size turns
// on Volume and Col_Type alone (Offset only enters for Col_Type==Intensity
// && Texture), and vertex size turns on Texture and, for the non-volume
// case, Col_Type==FloatColor specifically — UV_16bit never changes either
// size, only which decode recipe a vertex uses. Col_Type==1 (float color)
// combined with Volume==1 has no hardware meaning and is the sole invalid
// sentinel.
func buildPolyTypeEntry(ctrl uint32) polyTypeEntry {
	volume := objCtrlVolume(ctrl)
	colType := objCtrlColType(ctrl)
	texture := objCtrlTexture(ctrl)
	offset := objCtrlOffset(ctrl)

	if colType == ColTypeFloatColor && volume {
		return polyTypeEntry{semanticID: PolyInvalid}
	}

	if volume {
		id := PolyModifierVolume
		if texture {
			id = PolyModifierVolumeTex
		}
		return polyTypeEntry{headerSize64: colType == ColTypeIntensity, vertexSize64: texture, semanticID: uint8(id)}
	}

	switch colType {
	case ColTypePackedColor:
		if texture {
			return polyTypeEntry{semanticID: PolyOpaqueTexPacked}
		}
		return polyTypeEntry{semanticID: PolyOpaquePacked}
	case ColTypeFloatColor:
		if texture {
			return polyTypeEntry{vertexSize64: true, semanticID: PolyOpaqueTexFloat}
		}
		return polyTypeEntry{semanticID: PolyOpaqueFloat}
	case ColTypeIntensity:
		if texture {
			return polyTypeEntry{headerSize64: offset, semanticID: PolyOpaqueTexIntensity}
		}
		return polyTypeEntry{semanticID: PolyOpaqueIntensity}
	default: // ColTypePrevIntensity
		if texture {
			return polyTypeEntry{semanticID: PolyOpaqueTexPrevIntensity}
		}
		return polyTypeEntry{semanticID: PolyOpaquePrevIntensity}
	}
}

// polyHeaderTypeSize returns (headerBytes, vertexBytes) for a PCW. A pure
// function of obj_ctrl only, as required by the type-LUT idempotence
// invariant.
func polyHeaderTypeSize(pcw PCW) (headerBytes, vertexBytes int) {
	e := polyTypeLUT[pcw.ObjCtrl&0xFF]
	headerBytes = 32
	if e.headerSize64 {
		headerBytes = 64
	}
	vertexBytes = 32
	if e.vertexSize64 {
		vertexBytes = 64
	}
	return
}

// polyDataTypeID returns the semantic shading-recipe id (0..14), or
// PolyInvalid if obj_ctrl encodes the one disallowed combination.
func polyDataTypeID(pcw PCW) uint8 {
	return polyTypeLUT[pcw.ObjCtrl&0xFF].semanticID
}

// pvr_objlist.go - object list walker

package main

// Primitive is one geometric primitive decoded from an object list, ready
// for the rasterizer. Quads carry a fourth vertex that the rasterizer
// splits into two triangles.
type Primitive struct {
	Header DrawParameters
	V      [4]Vertex
	IsQuad bool
	Parity int
}

type objDescriptor struct {
	isStrip bool
	kind    uint32

	paramOffsWords uint32
	skip           uint32
	shadow         bool
	visMask        uint32

	prims uint32

	endOfList      bool
	nextBlockWords uint32
}

func decodeObjectDescriptor(word uint32) objDescriptor {
	if word&ObjListNotStripBit == 0 {
		return objDescriptor{
			isStrip:        true,
			paramOffsWords: word & ObjParamOffsMask,
			skip:           (word & ObjSkipMask) >> ObjSkipShift,
			shadow:         word&ObjStripShadowBit != 0,
			visMask:        (word & ObjStripVisMask) >> ObjStripVisShift,
		}
	}

	kind := (word & ObjListTypeMask) >> ObjListTypeShift
	d := objDescriptor{kind: kind}
	if kind == ObjListTypeLink {
		d.endOfList = word&ObjLinkEndOfListBit != 0
		d.nextBlockWords = word & ObjLinkNextPtrMask
		return d
	}
	d.paramOffsWords = word & ObjParamOffsMask
	d.prims = (word & ObjArrayPrimsMask) >> ObjArrayPrimsShift
	return d
}

func vertexStrideWords(skip uint32, shadow bool) uint32 {
	mul := uint32(1)
	if shadow {
		mul = 2
	}
	return 3 + skip*mul
}

// WalkObjectList reads consecutive 32-bit object descriptors from VRAM
// starting at listPtr's word offset and dispatches each into zero or more
// Primitives via emit. shadowEnabled mirrors FPU_SHAD_SCALE.intensity_shadow;
// when false, per-descriptor shadow bits are ignored for decode purposes.
func WalkObjectList(vram *VRAM, paramBase uint32, listPtr RegionListPtr, shadowEnabled bool, log Logger, emit func(Primitive)) {
	if listPtr.Empty {
		return
	}

	offset := listPtr.WordOffset * 4
	for {
		word := vram.ReadU32(offset)
		d := decodeObjectDescriptor(word)

		switch {
		case d.isStrip:
			walkStrip(vram, paramBase, d, shadowEnabled, emit)
			offset += 4

		case d.kind == ObjListTypeArrayTris:
			walkArrayTris(vram, paramBase, d, shadowEnabled, emit)
			offset += 4

		case d.kind == ObjListTypeArrayQuads:
			walkArrayQuads(vram, paramBase, d, shadowEnabled, emit)
			offset += 4

		case d.kind == ObjListTypeLink:
			if d.endOfList {
				return
			}
			offset = d.nextBlockWords * 4

		default:
			log.Logf("objlist: unknown descriptor type %d at word offset %d, stopping list", d.kind, offset/4)
			return
		}
	}
}

func walkStrip(vram *VRAM, paramBase uint32, d objDescriptor, shadowEnabled bool, emit func(Primitive)) {
	header := decodeDrawParameters(vram, paramBase+d.paramOffsWords*4)
	effShadow := d.shadow && shadowEnabled
	stride := vertexStrideWords(d.skip, effShadow)

	hasTexture := objCtrlTexture(header.PCW.ObjCtrl)
	hasUV16 := objCtrlUV16(header.PCW.ObjCtrl)
	hasOffset := objCtrlOffset(header.PCW.ObjCtrl)

	base := paramBase + d.paramOffsWords*4 + header.HeaderWords()*4
	var verts [8]Vertex
	for i := 0; i < 8; i++ {
		verts[i] = decodeVertex(vram, base+uint32(i)*stride*4, hasTexture, hasUV16, hasOffset, effShadow)
	}

	for i := 0; i < 6; i++ {
		if d.visMask&(1<<uint(5-i)) == 0 {
			continue
		}
		emit(Primitive{
			Header: header,
			V:      [4]Vertex{verts[i], verts[i+1], verts[i+2]},
			Parity: i & 1,
		})
	}
}

func walkArrayTris(vram *VRAM, paramBase uint32, d objDescriptor, shadowEnabled bool, emit func(Primitive)) {
	header := decodeDrawParameters(vram, paramBase+d.paramOffsWords*4)
	stride := vertexStrideWords(0, false)

	hasTexture := objCtrlTexture(header.PCW.ObjCtrl)
	hasUV16 := objCtrlUV16(header.PCW.ObjCtrl)
	hasOffset := objCtrlOffset(header.PCW.ObjCtrl)

	base := paramBase + d.paramOffsWords*4 + header.HeaderWords()*4
	vertsPerTri := uint32(3)
	for i := uint32(0); i <= d.prims; i++ {
		triBase := base + i*vertsPerTri*stride*4
		var v [4]Vertex
		for k := uint32(0); k < 3; k++ {
			v[k] = decodeVertex(vram, triBase+k*stride*4, hasTexture, hasUV16, hasOffset, shadowEnabled)
		}
		emit(Primitive{Header: header, V: v})
	}
}

func walkArrayQuads(vram *VRAM, paramBase uint32, d objDescriptor, shadowEnabled bool, emit func(Primitive)) {
	header := decodeDrawParameters(vram, paramBase+d.paramOffsWords*4)
	stride := vertexStrideWords(0, false)

	hasTexture := objCtrlTexture(header.PCW.ObjCtrl)
	hasUV16 := objCtrlUV16(header.PCW.ObjCtrl)
	hasOffset := objCtrlOffset(header.PCW.ObjCtrl)

	base := paramBase + d.paramOffsWords*4 + header.HeaderWords()*4
	vertsPerQuad := uint32(4)
	for i := uint32(0); i <= d.prims; i++ {
		quadBase := base + i*vertsPerQuad*stride*4
		var v [4]Vertex
		for k := uint32(0); k < 4; k++ {
			v[k] = decodeVertex(vram, quadBase+k*stride*4, hasTexture, hasUV16, hasOffset, shadowEnabled)
		}
		emit(Primitive{Header: header, V: v, IsQuad: true})
	}
}

// pvr_pcw_test.go - Parameter Control Word decode and polygon type LUT tests

package main

import "testing"

func TestDecodePCW_FieldExtraction(t *testing.T) {
	word := uint32(ParaPolygonOrModifierVolume)<<29 | uint32(ListOpaque)<<24 | 0x5A
	pcw := decodePCW(word)
	if pcw.ParaType != ParaPolygonOrModifierVolume {
		t.Errorf("ParaType = %d, want %d", pcw.ParaType, ParaPolygonOrModifierVolume)
	}
	if pcw.ListType != ListOpaque {
		t.Errorf("ListType = %d, want %d", pcw.ListType, ListOpaque)
	}
	if pcw.ObjCtrl != 0x5A {
		t.Errorf("ObjCtrl = 0x%X, want 0x5A", pcw.ObjCtrl)
	}
}

func TestPolyTypeLUT_FloatColorVolumeIsTheSoleInvalidEntry(t *testing.T) {
	invalidCount := 0
	for ctrl := 0; ctrl < 256; ctrl++ {
		if polyTypeLUT[ctrl].semanticID == PolyInvalid {
			invalidCount++
			if !objCtrlVolume(uint32(ctrl)) || objCtrlColType(uint32(ctrl)) != ColTypeFloatColor {
				t.Errorf("obj_ctrl 0x%02X marked invalid but is not (volume && float color)", ctrl)
			}
		}
	}
	if invalidCount == 0 {
		t.Fatal("expected at least one invalid (volume && float color) combination in the LUT")
	}
}

func TestPolyTypeLUT_IsPureFunctionOfObjCtrl(t *testing.T) {
	// Idempotence: building the same entry twice must be identical, and the
	// precomputed table must match a fresh build from scratch.
	for ctrl := 0; ctrl < 256; ctrl++ {
		want := buildPolyTypeEntry(uint32(ctrl))
		got := polyTypeLUT[ctrl]
		if got != want {
			t.Fatalf("obj_ctrl 0x%02X: table entry %+v does not match a fresh build %+v", ctrl, got, want)
		}
	}
}

func TestPolyHeaderTypeSize_PackedModifierVolumeIs32Bit(t *testing.T) {
	ctrl := uint32(ObjCtrlVolumeBit) // volume, packed color (0), no texture
	pcw := PCW{ObjCtrl: ctrl}
	headerBytes, vertexBytes := polyHeaderTypeSize(pcw)
	if headerBytes != 32 || vertexBytes != 32 {
		t.Fatalf("expected 32/32 byte sizes for a packed-color modifier volume, got %d/%d", headerBytes, vertexBytes)
	}
}

func TestPolyHeaderTypeSize_TexturedIntensityModifierVolumeIs64Bit(t *testing.T) {
	ctrl := uint32(ObjCtrlVolumeBit) | ColTypeIntensity<<ObjCtrlColTypeLSB | ObjCtrlTextureBit
	pcw := PCW{ObjCtrl: ctrl}
	headerBytes, vertexBytes := polyHeaderTypeSize(pcw)
	if headerBytes != 64 || vertexBytes != 64 {
		t.Fatalf("expected 64/64 byte sizes for a textured intensity modifier volume, got %d/%d", headerBytes, vertexBytes)
	}
}

func TestPolyHeaderTypeSize_PackedOpaqueIs32Bit(t *testing.T) {
	pcw := PCW{ObjCtrl: 0} // no volume, packed color, no texture/offset
	headerBytes, vertexBytes := polyHeaderTypeSize(pcw)
	if headerBytes != 32 || vertexBytes != 32 {
		t.Fatalf("expected 32/32 byte sizes for plain packed-color opaque, got %d/%d", headerBytes, vertexBytes)
	}
}

func TestPolyDataTypeID_TexturedPackedSelectsExpectedRecipe(t *testing.T) {
	ctrl := uint32(ObjCtrlTextureBit) // packed color (0), textured, no volume/offset
	id := polyDataTypeID(PCW{ObjCtrl: ctrl})
	if id != PolyOpaqueTexPacked {
		t.Fatalf("polyDataTypeID = %d, want PolyOpaqueTexPacked (%d)", id, PolyOpaqueTexPacked)
	}
}

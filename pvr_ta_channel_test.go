// pvr_ta_channel_test.go - TA channel stream/FSM wiring tests

package main

import "testing"

func taWord(paraType, listType, objCtrl uint32) []byte {
	pcw := paraType<<29 | listType<<24 | (objCtrl & 0xFF)
	word := make([]byte, 32)
	word[0] = byte(pcw)
	word[1] = byte(pcw >> 8)
	word[2] = byte(pcw >> 16)
	word[3] = byte(pcw >> 24)
	return word
}

func TestTaChannel_WriteWord32RejectsWrongSize(t *testing.T) {
	c := NewTaChannel(nullInterruptSink{}, discardLogger{})
	c.ListInit()
	if err := c.WriteWord32(make([]byte, 16)); err == nil {
		t.Fatal("expected an error for a non-32-byte word")
	}
}

func TestTaChannel_ImplicitListInitBeforeFirstWrite(t *testing.T) {
	c := NewTaChannel(nullInterruptSink{}, discardLogger{})
	if err := c.WriteWord32(taWord(ParaUserTileClip, ListOpaque, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Tactx()) != 32 {
		t.Fatalf("expected the implicit ListInit to still append the word, got %d bytes", len(c.Tactx()))
	}
}

func TestTaChannel_PolygonOpensPLV32ForPackedOpaque(t *testing.T) {
	c := NewTaChannel(nullInterruptSink{}, discardLogger{})
	c.ListInit()
	if err := c.WriteWord32(taWord(ParaPolygonOrModifierVolume, ListOpaque, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StatePLV32 {
		t.Fatalf("expected state PLV32 after a packed-opaque polygon header, got %s", taStateNames[c.State()])
	}
}

func TestTaChannel_PolygonOpensMLV64ForModifierVolumeList(t *testing.T) {
	c := NewTaChannel(nullInterruptSink{}, discardLogger{})
	c.ListInit()
	if err := c.WriteWord32(taWord(ParaPolygonOrModifierVolume, ListOpaqueMod, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StateMLV64 {
		t.Fatalf("expected state MLV64 after opening an opaque-mod list, got %s", taStateNames[c.State()])
	}
}

func TestTaChannel_EndOfListRaisesInterruptAndRecordsBoundary(t *testing.T) {
	sink := &recordingInterruptSink{}
	c := NewTaChannel(sink, discardLogger{})
	c.ListInit()
	c.WriteWord32(taWord(ParaPolygonOrModifierVolume, ListOpaque, 0))
	if err := c.WriteWord32(taWord(ParaEndOfList, ListOpaque, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StateNS {
		t.Fatalf("expected NS after End_Of_List, got %s", taStateNames[c.State()])
	}
	ids := sink.Raised()
	if len(ids) != 1 || ids[0] != IntOpaque {
		t.Fatalf("expected exactly one IntOpaque interrupt, got %v", ids)
	}
	if len(c.boundaries) != 1 || c.boundaries[0] != len(c.buf) {
		t.Fatalf("expected a committed boundary at the current buffer length")
	}
}

func TestTaChannel_MalformedParaTypeIsIgnoredNotFatal(t *testing.T) {
	c := NewTaChannel(nullInterruptSink{}, discardLogger{})
	c.ListInit()
	before := c.State()
	word := make([]byte, 32)
	word[3] = 0x60 // ParaType = 3, not in paraTypeValid's set
	if err := c.WriteWord32(word); err != nil {
		t.Fatalf("malformed ParaType must not produce a Go error, got %v", err)
	}
	if c.State() != before {
		t.Fatalf("expected state to remain unchanged after a malformed ParaType, got %s", taStateNames[c.State()])
	}
}

func TestTaChannel_ListContRetainsUpToLastBoundary(t *testing.T) {
	c := NewTaChannel(nullInterruptSink{}, discardLogger{})
	c.ListInit()
	c.WriteWord32(taWord(ParaPolygonOrModifierVolume, ListOpaque, 0))
	c.WriteWord32(taWord(ParaEndOfList, ListOpaque, 0))
	committed := len(c.Tactx())

	c.WriteWord32(taWord(ParaUserTileClip, ListOpaque, 0)) // appended after the boundary, should be discarded by ListCont
	c.ListCont()

	if len(c.Tactx()) != committed {
		t.Fatalf("expected ListCont to retain exactly %d bytes, got %d", committed, len(c.Tactx()))
	}
	if c.State() != StateNS {
		t.Fatalf("expected ListCont to reset state to NS, got %s", taStateNames[c.State()])
	}
}

func TestTaChannel_SoftResetDoesNotTouchBuffer(t *testing.T) {
	c := NewTaChannel(nullInterruptSink{}, discardLogger{})
	c.ListInit()
	c.WriteWord32(taWord(ParaPolygonOrModifierVolume, ListOpaque, 0))
	before := len(c.Tactx())
	c.SoftReset()
	if c.State() != StateNS {
		t.Fatalf("expected SoftReset to force state NS, got %s", taStateNames[c.State()])
	}
	if len(c.Tactx()) != before {
		t.Fatalf("expected SoftReset to leave the tactx buffer untouched, got length %d, want %d", len(c.Tactx()), before)
	}
}

func TestTaChannel_TaVtxData32ReadsFromVRAM(t *testing.T) {
	vram := NewVRAM(4096)
	word := taWord(ParaPolygonOrModifierVolume, ListOpaque, 0)
	copy(vram.Bytes()[128:], word)

	c := NewTaChannel(nullInterruptSink{}, discardLogger{})
	c.ListInit()
	if err := c.ta_vtx_data32(vram, 128); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StatePLV32 {
		t.Fatalf("expected PLV32 after feeding a VRAM-sourced polygon word, got %s", taStateNames[c.State()])
	}
}

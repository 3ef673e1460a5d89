// pvr_vram_test.go - VRAM linear/banked address space tests

package main

import "testing"

func TestVRAM_U32RoundTrip(t *testing.T) {
	v := NewVRAM(64)
	v.WriteU32(16, 0xDEADBEEF)
	if got := v.ReadU32(16); got != 0xDEADBEEF {
		t.Fatalf("ReadU32 = 0x%X, want 0xDEADBEEF", got)
	}
}

func TestVRAM_F32RoundTrip(t *testing.T) {
	v := NewVRAM(64)
	v.WriteU32(0, 0x3F800000) // 1.0f
	if got := v.ReadF32(0); got != 1.0 {
		t.Fatalf("ReadF32 = %v, want 1.0", got)
	}
}

func TestVRAM_ReadBytes32_OutOfBounds(t *testing.T) {
	v := NewVRAM(32)
	if _, err := v.ReadBytes32(16, 32); err == nil {
		t.Fatal("expected an out-of-bounds error reading past the buffer end")
	}
}

func TestVRAM_ReadBytes32_InBounds(t *testing.T) {
	v := NewVRAM(64)
	v.WriteU32(0, 0x11223344)
	b, err := v.ReadBytes32(0, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b) != 4 || b[0] != 0x44 {
		t.Fatalf("expected little-endian byte 0x44 first, got %v", b)
	}
}

func TestVRAM_BankTranslate_SwapsBit2AndBit20(t *testing.T) {
	// addr with only bit 2 set should translate to an address with only bit 20 set.
	got := bankTranslate(1 << 2)
	if got != 1<<20 {
		t.Fatalf("bankTranslate(1<<2) = 0x%X, want 0x%X", got, 1<<20)
	}
	// and vice versa.
	got2 := bankTranslate(1 << 20)
	if got2 != 1<<2 {
		t.Fatalf("bankTranslate(1<<20) = 0x%X, want 0x%X", got2, 1<<2)
	}
}

func TestVRAM_BankTranslate_LeavesOtherBitsUntouched(t *testing.T) {
	addr := uint32(0x00F00F08) // bit 20 set, plus bits outside 2 and 20
	got := bankTranslate(addr)
	if got&^((1<<2)|(1<<20)) != addr&^((1<<2)|(1<<20)) {
		t.Fatalf("bankTranslate altered bits outside 2/20: got 0x%X from 0x%X", got, addr)
	}
}

func TestVRAM_Area1U16RoundTrip(t *testing.T) {
	v := NewVRAM(1 << 21)
	addr := uint32(1 << 20) // exercises the bank-swap path
	v.WriteArea1U16(addr, 0xBEEF)
	if got := v.ReadArea1U16(addr); got != 0xBEEF {
		t.Fatalf("ReadArea1U16 = 0x%X, want 0xBEEF", got)
	}
}

func TestVRAM_Area1U32ReadsThroughBankTranslation(t *testing.T) {
	v := NewVRAM(1 << 21)
	addr := uint32(1 << 20)
	linear := bankTranslate(addr)
	v.WriteU32(linear, 0xCAFEF00D)
	if got := v.ReadArea1U32(addr); got != 0xCAFEF00D {
		t.Fatalf("ReadArea1U32 = 0x%X, want 0xCAFEF00D", got)
	}
}

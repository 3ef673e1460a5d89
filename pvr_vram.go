// pvr_vram.go - typed VRAM byte-buffer view (32-bit linear / 64-bit banked)

package main

import (
	"encoding/binary"
	"fmt"
	"math"
)

// VRAM is a fixed-size byte buffer viewed through two address spaces: a
// 32-bit linear space used by the rasterizer, and a 64-bit banked space
// used by texture accesses. All multi-byte accesses are little-endian.
type VRAM struct {
	data []byte
}

func NewVRAM(size int) *VRAM {
	return &VRAM{data: make([]byte, size)}
}

func (v *VRAM) Bytes() []byte { return v.data }

func (v *VRAM) Size() int { return len(v.data) }

// bankTranslate maps a 64-bit-banked-space address onto its linear-space
// byte offset by swapping address bit 2 with bit 20 — the same transform
// real PowerVR silicon uses to interleave its two physical VRAM chips into
// a contiguous 64-bit-wide texture access window.
func bankTranslate(addr uint32) uint32 {
	bit2 := (addr >> 2) & 1
	bit20 := (addr >> 20) & 1
	addr &^= (1 << 2) | (1 << 20)
	addr |= bit20<<2 | bit2<<20
	return addr
}

// ReadU32 reads a little-endian u32 from the 32-bit linear address space.
// This is the vri(vram, offset) external interface.
func (v *VRAM) ReadU32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(v.data[offset : offset+4])
}

// ReadF32 reinterprets the u32 at offset as an IEEE-754 float32.
// This is the vrf(vram, offset) external interface.
func (v *VRAM) ReadF32(offset uint32) float32 {
	return math.Float32frombits(v.ReadU32(offset))
}

func (v *VRAM) WriteU32(offset uint32, val uint32) {
	binary.LittleEndian.PutUint32(v.data[offset:offset+4], val)
}

// ReadBytes32 reads n bytes starting at offset from the linear address
// space, used by the TA front-end to pull 32-byte command words.
func (v *VRAM) ReadBytes32(offset uint32, n int) ([]byte, error) {
	if int(offset)+n > len(v.data) {
		return nil, fmt.Errorf("vram: read [%d:%d] out of bounds (size %d)", offset, int(offset)+n, len(v.data))
	}
	out := make([]byte, n)
	copy(out, v.data[offset:int(offset)+n])
	return out, nil
}

// ReadArea1U16 reads a u16 through the 64-bit banked texture address space.
// This is the pvr_read_area1_16 external interface.
func (v *VRAM) ReadArea1U16(addr uint32) uint16 {
	off := bankTranslate(addr)
	return binary.LittleEndian.Uint16(v.data[off : off+2])
}

// ReadArea1U32 reads a u32 through the 64-bit banked texture address space.
// This is the pvr_read_area1_32 external interface.
func (v *VRAM) ReadArea1U32(addr uint32) uint32 {
	off := bankTranslate(addr)
	return binary.LittleEndian.Uint32(v.data[off : off+4])
}

// WriteArea1U16 writes a u16 through the 64-bit banked texture address
// space. This is the pvr_write_area1_16 external interface.
func (v *VRAM) WriteArea1U16(addr uint32, val uint16) {
	off := bankTranslate(addr)
	binary.LittleEndian.PutUint16(v.data[off:off+2], val)
}

// pvr_vertex.go - vertex decoder and polygon header (DrawParameters) decode

package main

import "math"

// DrawParameters holds the decoded ISP/TSP/TCW words that precede a
// polygon's vertex data, plus the optional TSP2/TCW2 pair present when the
// 64-byte header variant is used (shadowing with intensity volumes).
type DrawParameters struct {
	PCW  PCW
	ISP  uint32
	TSP  uint32
	TCW  uint32
	TSP2 uint32
	TCW2 uint32
	Has64 bool
}

func (d DrawParameters) HeaderWords() uint32 {
	if d.Has64 {
		return 16
	}
	return 8
}

func decodeDrawParameters(vram *VRAM, offset uint32) DrawParameters {
	pcw := decodePCW(vram.ReadU32(offset))
	headerBytes, _ := polyHeaderTypeSize(pcw)

	d := DrawParameters{
		PCW: pcw,
		ISP: vram.ReadU32(offset + 4),
		TSP: vram.ReadU32(offset + 8),
		TCW: vram.ReadU32(offset + 12),
	}
	if headerBytes == 64 {
		d.Has64 = true
		d.TSP2 = vram.ReadU32(offset + 16)
		d.TCW2 = vram.ReadU32(offset + 20)
	}
	return d
}

// Vertex is a decoded polygon vertex.
type Vertex struct {
	X, Y, Z float32
	U, V    float32
	HasUV   bool
	Color   [4]byte // RGBA, unpacked from the wire's packed BGRA
	Offset  [4]byte
	HasOffset bool
}

func unpackBGRA(word uint32) [4]byte {
	b := byte(word)
	g := byte(word >> 8)
	r := byte(word >> 16)
	a := byte(word >> 24)
	return [4]byte{r, g, b, a}
}

// decodeVertex reads one vertex at offset. hasTexture/hasUV16/hasOffset
// come from the polygon header's obj_ctrl (see pvr_pcw.go); shadow is the
// object descriptor's per-entry shadow bit, forced to false when shadow
// volumes with intensity are globally disabled (FPU_SHAD_SCALE).
func decodeVertex(vram *VRAM, offset uint32, hasTexture, hasUV16, hasOffset, shadow bool) Vertex {
	v := Vertex{
		X: vram.ReadF32(offset),
		Y: vram.ReadF32(offset + 4),
		Z: vram.ReadF32(offset + 8),
	}
	cursor := offset + 12

	if hasTexture {
		if hasUV16 {
			packed := vram.ReadU32(cursor)
			v.U = half16ToFloat(uint16(packed >> 16))
			v.V = half16ToFloat(uint16(packed))
			cursor += 4
		} else {
			v.U = vram.ReadF32(cursor)
			v.V = vram.ReadF32(cursor + 4)
			cursor += 8
		}
		v.HasUV = true
	}

	v.Color = unpackBGRA(vram.ReadU32(cursor))
	cursor += 4

	if hasOffset {
		v.Offset = unpackBGRA(vram.ReadU32(cursor))
		v.HasOffset = true
	}

	_ = shadow // shadow affects vertex stride (see vertexStrideWords), not field layout here
	return v
}

// half16ToFloat decodes a 16-bit texture coordinate the way the hardware's
// TSP actually does: the 16 bits become the top half of a 32-bit float, not
// a proper IEEE-754 binary16 unpack.
func half16ToFloat(h uint16) float32 {
	return math.Float32frombits(uint32(h) << 16)
}

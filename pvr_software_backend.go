// pvr_software_backend.go - CORE reference software rasterizer back-end

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import "math"

const modifierVolumeTag = -1

type fpuEntry struct {
	header DrawParameters
	mode   int
}

// SoftwareBackend is the reference CORE rasterizer: barycentric triangle
// rasterization against a per-pixel tag+depth buffer, resolved into color
// by RenderParamTags. Not safe to share across goroutines — the pool gives
// one instance per worker.
type SoftwareBackend struct {
	width, height int

	colorBuf    []byte // RGBA8
	resolved    [][4]byte
	depthBuf    []float32
	depthRefBuf []float32
	stencilBuf  []bool
	stencilTmp  []bool
	tagBuf      []int32
	touched     []bool
	peeling     bool

	pixelsDrawn int
	fpuEntries  []fpuEntry
}

func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{}
}

func (b *SoftwareBackend) Init(w, h int) error {
	n := w * h
	b.width, b.height = w, h
	b.colorBuf = make([]byte, n*4)
	b.resolved = make([][4]byte, n)
	b.depthBuf = make([]float32, n)
	b.depthRefBuf = make([]float32, n)
	b.stencilBuf = make([]bool, n)
	b.stencilTmp = make([]bool, n)
	b.tagBuf = make([]int32, n)
	b.touched = make([]bool, n)
	return nil
}

func (b *SoftwareBackend) ClearBuffers(bgTag int, bgDepth float32) {
	for i := range b.tagBuf {
		b.tagBuf[i] = int32(bgTag)
		b.depthBuf[i] = bgDepth
		b.stencilBuf[i] = false
	}
	for i := range b.colorBuf {
		b.colorBuf[i] = 0
	}
	b.peeling = false
	b.pixelsDrawn = 0
}

func (b *SoftwareBackend) ClearParamBuffer() {
	for i := range b.tagBuf {
		b.tagBuf[i] = -1
	}
	for i := range b.touched {
		b.touched[i] = false
	}
}

func (b *SoftwareBackend) ClearPixelsDrawn() {
	b.pixelsDrawn = 0
	for i := range b.touched {
		b.touched[i] = false
	}
}

func (b *SoftwareBackend) GetPixelsDrawn() int { return b.pixelsDrawn }

func (b *SoftwareBackend) PeelBuffers() {
	copy(b.depthRefBuf, b.depthBuf)
	for i := range b.depthBuf {
		b.depthBuf[i] = math.MaxFloat32
	}
	for i := range b.stencilBuf {
		b.stencilBuf[i] = false
	}
	b.peeling = true
}

func (b *SoftwareBackend) AddFpuEntry(header DrawParameters, mode int) int {
	b.fpuEntries = append(b.fpuEntries, fpuEntry{header: header, mode: mode})
	return len(b.fpuEntries) - 1
}

func (b *SoftwareBackend) ClearFpuEntries() {
	b.fpuEntries = b.fpuEntries[:0]
}

func (b *SoftwareBackend) RasterizeTriangle(tag int, v [4]Vertex, isQuad bool, parity int) {
	b.rasterOne(tag, v[0], v[1], v[2], parity)
	if isQuad {
		b.rasterOne(tag, v[0], v[2], v[3], parity^1)
	}
}

func (b *SoftwareBackend) rasterOne(tag int, v0, v1, v2 Vertex, parity int) {
	minX := int(math.Floor(float64(min3f(v0.X, v1.X, v2.X))))
	maxX := int(math.Ceil(float64(max3f(v0.X, v1.X, v2.X))))
	minY := int(math.Floor(float64(min3f(v0.Y, v1.Y, v2.Y))))
	maxY := int(math.Ceil(float64(max3f(v0.Y, v1.Y, v2.Y))))

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > b.width {
		maxX = b.width
	}
	if maxY > b.height {
		maxY = b.height
	}

	area := edgeFunction(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area == 0 {
		return
	}
	if area < 0 {
		v0, v2 = v2, v0
		area = -area
	}
	invArea := 1.0 / area

	for y := minY; y < maxY; y++ {
		rowBase := y * b.width
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5

			w0 := edgeFunction(v1.X, v1.Y, v2.X, v2.Y, px, py)
			w1 := edgeFunction(v2.X, v2.Y, v0.X, v0.Y, px, py)
			w2 := edgeFunction(v0.X, v0.Y, v1.X, v1.Y, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			w0 *= invArea
			w1 *= invArea
			w2 *= invArea

			z := w0*v0.Z + w1*v1.Z + w2*v2.Z
			idx := rowBase + x

			if tag == modifierVolumeTag {
				if z < b.depthBuf[idx] {
					b.stencilTmp[idx] = true
				}
				continue
			}

			if b.peeling && z <= b.depthRefBuf[idx] {
				continue
			}
			if z >= b.depthBuf[idx] {
				continue
			}

			b.depthBuf[idx] = z
			b.tagBuf[idx] = int32(tag)
			b.resolved[idx] = [4]byte{
				byte(clampf(w0*float32(v0.Color[0])+w1*float32(v1.Color[0])+w2*float32(v2.Color[0]), 0, 255)),
				byte(clampf(w0*float32(v0.Color[1])+w1*float32(v1.Color[1])+w2*float32(v2.Color[1]), 0, 255)),
				byte(clampf(w0*float32(v0.Color[2])+w1*float32(v1.Color[2])+w2*float32(v2.Color[2]), 0, 255)),
				byte(clampf(w0*float32(v0.Color[3])+w1*float32(v1.Color[3])+w2*float32(v2.Color[3]), 0, 255)),
			}

			if b.peeling && !b.touched[idx] {
				b.touched[idx] = true
				b.pixelsDrawn++
			}
		}
	}
}

func (b *SoftwareBackend) SummarizeStencilOr() {
	for i := range b.stencilBuf {
		b.stencilBuf[i] = b.stencilBuf[i] || b.stencilTmp[i]
		b.stencilTmp[i] = false
	}
}

func (b *SoftwareBackend) SummarizeStencilAnd() {
	for i := range b.stencilBuf {
		b.stencilBuf[i] = b.stencilBuf[i] && b.stencilTmp[i]
		b.stencilTmp[i] = false
	}
}

// RenderParamTags resolves the tag buffer into the tile color buffer.
// Opaque resolution overwrites; translucent resolution alpha-blends over
// whatever is already present, preserving closer layers painted by earlier
// peel passes.
func (b *SoftwareBackend) RenderParamTags(mode int) {
	for idx, tag := range b.tagBuf {
		if tag < 0 {
			continue
		}
		c := b.resolved[idx]
		bufIdx := idx * 4

		if mode == RenderModeOpaque {
			b.colorBuf[bufIdx+0] = c[0]
			b.colorBuf[bufIdx+1] = c[1]
			b.colorBuf[bufIdx+2] = c[2]
			b.colorBuf[bufIdx+3] = c[3]
			continue
		}

		srcA := float32(c[3]) / 255.0
		for ch := 0; ch < 3; ch++ {
			dst := float32(b.colorBuf[bufIdx+ch])
			src := float32(c[ch])
			b.colorBuf[bufIdx+ch] = byte(clampf(src*srcA+dst*(1-srcA), 0, 255))
		}
		b.colorBuf[bufIdx+3] = 255
	}
}

func (b *SoftwareBackend) GetColorOutputBuffer() []byte { return b.colorBuf }

func (b *SoftwareBackend) DebugOnFrameStart()       {}
func (b *SoftwareBackend) DebugOnTileStart(x, y int) {}

func (b *SoftwareBackend) Destroy() {
	b.colorBuf = nil
	b.resolved = nil
	b.depthBuf = nil
	b.depthRefBuf = nil
	b.stencilBuf = nil
	b.stencilTmp = nil
	b.tagBuf = nil
	b.touched = nil
	b.fpuEntries = nil
}

func edgeFunction(ax, ay, bx, by, cx, cy float32) float32 {
	return (cx-ax)*(by-ay) - (cy-ay)*(bx-ax)
}

func min3f(a, b, c float32) float32 {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

func max3f(a, b, c float32) float32 {
	if a > b {
		if a > c {
			return a
		}
		return c
	}
	if b > c {
		return b
	}
	return c
}

func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

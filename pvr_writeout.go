// pvr_writeout.go - tile-to-framebuffer packing and writeout-queue config validation

package main

import "fmt"

// WriteoutConfig mirrors the FB_W_* register group that governs how tile
// color buffers land in VRAM.
type WriteoutConfig struct {
	PackMode     uint32
	LineStride   uint32 // bytes per scanline
	SOF1, SOF2   uint32 // start-of-frame addresses, field 1 / field 2
	Interlace    bool
	VScaleFactor uint32
	HScale       bool // SCALER_CTL.hscale; the write path supports only unscaled output
}

// ValidateWriteoutConfig rejects framebuffer configurations CORE has no
// defined packing behavior for. Per the unsupported-framebuffer-config
// case, this is a fatal condition: the caller should stop rendering rather
// than guess at a packing. The writeout path only ever produces 565 RGB16;
// 555/888/C888 are read-back presentation formats, not writeout formats.
func ValidateWriteoutConfig(cfg WriteoutConfig) error {
	if cfg.PackMode != FBPackMode565 {
		return fmt.Errorf("writeout: unsupported fb_packmode 0x%X, only 565 is supported", cfg.PackMode)
	}
	if cfg.HScale {
		return fmt.Errorf("writeout: unsupported hscale")
	}
	if !supportedVScaleFactors[cfg.VScaleFactor] {
		return fmt.Errorf("writeout: unsupported vscalefactor 0x%X", cfg.VScaleFactor)
	}
	if cfg.LineStride == 0 {
		return fmt.Errorf("writeout: zero linestride")
	}
	return nil
}

// packPixel converts one RGBA8 pixel into mode's wire encoding, returning
// the bytes to write (little-endian, matching vri/vrf's word ordering).
func packPixel(c [4]byte, mode uint32) []byte {
	r, g, b := c[0], c[1], c[2]
	switch mode {
	case FBPackMode555:
		v := uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(b>>3)
		return []byte{byte(v), byte(v >> 8)}
	case FBPackMode565:
		v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
		return []byte{byte(v), byte(v >> 8)}
	case FBPackMode888:
		return []byte{b, g, r}
	case FBPackModeC888:
		return []byte{b, g, r, 0}
	default:
		return []byte{b, g, r, 0}
	}
}

// bytesPerPixel returns the wire pixel size for mode.
func bytesPerPixel(mode uint32) int {
	switch mode {
	case FBPackMode555, FBPackMode565:
		return 2
	case FBPackMode888:
		return 3
	default:
		return 4
	}
}

// WriteTile packs one TileResult's RGBA8 pixels into VRAM at the
// framebuffer location cfg describes, selecting SOF1/SOF2 by field when
// interlaced. field is ignored when cfg.Interlace is false.
func WriteTile(vram *VRAM, cfg WriteoutConfig, r TileResult, field int) {
	sof := cfg.SOF1
	if cfg.Interlace && field == 1 {
		sof = cfg.SOF2
	}
	bpp := bytesPerPixel(cfg.PackMode)
	originX := r.TileX * TileSize
	originY := r.TileY * TileSize

	for y := 0; y < TileSize; y++ {
		rowAddr := sof + uint32(originY+y)*cfg.LineStride + uint32(originX*bpp)
		for x := 0; x < TileSize; x++ {
			i := (y*TileSize + x) * 4
			px := [4]byte{r.Pixels[i], r.Pixels[i+1], r.Pixels[i+2], r.Pixels[i+3]}
			out := packPixel(px, cfg.PackMode)
			addr := rowAddr + uint32(x*bpp)
			for k, bv := range out {
				vram.Bytes()[addr+uint32(k)] = bv
			}
		}
	}
}

// pvr_writeout_test.go - writeout config validation and pixel packing tests

package main

import "testing"

func validWriteoutConfig() WriteoutConfig {
	return WriteoutConfig{
		PackMode:     FBPackMode565,
		LineStride:   TileSize * 2,
		SOF1:         0,
		SOF2:         0x1000,
		VScaleFactor: 0x400,
	}
}

func TestValidateWriteoutConfig_AcceptsKnownGoodConfig(t *testing.T) {
	if err := ValidateWriteoutConfig(validWriteoutConfig()); err != nil {
		t.Fatalf("expected a known-good config to validate, got %v", err)
	}
}

func TestValidateWriteoutConfig_RejectsNon565PackMode(t *testing.T) {
	for _, mode := range []uint32{FBPackMode555, FBPackMode888, FBPackModeC888, 0x7} {
		cfg := validWriteoutConfig()
		cfg.PackMode = mode
		if err := ValidateWriteoutConfig(cfg); err == nil {
			t.Fatalf("expected an error for fb_packmode 0x%X, only 565 is a valid writeout format", mode)
		}
	}
}

func TestValidateWriteoutConfig_RejectsHScale(t *testing.T) {
	cfg := validWriteoutConfig()
	cfg.HScale = true
	if err := ValidateWriteoutConfig(cfg); err == nil {
		t.Fatal("expected an error for an unsupported hscale")
	}
}

func TestValidateWriteoutConfig_RejectsUnsupportedVScale(t *testing.T) {
	cfg := validWriteoutConfig()
	cfg.VScaleFactor = 0x999
	if err := ValidateWriteoutConfig(cfg); err == nil {
		t.Fatal("expected an error for an unsupported vscalefactor")
	}
}

func TestValidateWriteoutConfig_RejectsZeroLineStride(t *testing.T) {
	cfg := validWriteoutConfig()
	cfg.LineStride = 0
	if err := ValidateWriteoutConfig(cfg); err == nil {
		t.Fatal("expected an error for a zero linestride")
	}
}

func TestBytesPerPixel_MatchesPackMode(t *testing.T) {
	cases := map[uint32]int{
		FBPackMode555:  2,
		FBPackMode565:  2,
		FBPackMode888:  3,
		FBPackModeC888: 4,
	}
	for mode, want := range cases {
		if got := bytesPerPixel(mode); got != want {
			t.Errorf("bytesPerPixel(%d) = %d, want %d", mode, got, want)
		}
	}
}

func TestPackPixel_555RoundTripsTopBits(t *testing.T) {
	c := [4]byte{0xF8, 0xF8, 0xF8, 0xFF} // top 5 bits set in each channel
	out := packPixel(c, FBPackMode555)
	if len(out) != 2 {
		t.Fatalf("expected 2 bytes for 555, got %d", len(out))
	}
	v := uint16(out[0]) | uint16(out[1])<<8
	if v != 0x7FFF {
		t.Fatalf("expected all 15 color bits set, got 0x%04X", v)
	}
}

func TestPackPixel_565KeepsExtraGreenBit(t *testing.T) {
	c := [4]byte{0x00, 0xFC, 0x00, 0xFF} // top 6 green bits set, nothing else
	out := packPixel(c, FBPackMode565)
	v := uint16(out[0]) | uint16(out[1])<<8
	greenBits := (v >> 5) & 0x3F
	if greenBits != 0x3F {
		t.Fatalf("expected all 6 green bits set in 565 packing, got 0x%X", greenBits)
	}
}

func TestPackPixel_888IsBGRByteOrder(t *testing.T) {
	c := [4]byte{0x11, 0x22, 0x33, 0xFF}
	out := packPixel(c, FBPackMode888)
	if len(out) != 3 || out[0] != 0x33 || out[1] != 0x22 || out[2] != 0x11 {
		t.Fatalf("expected BGR byte order, got %v", out)
	}
}

func TestPackPixel_C888AppendsZeroByte(t *testing.T) {
	c := [4]byte{0x11, 0x22, 0x33, 0xFF}
	out := packPixel(c, FBPackModeC888)
	if len(out) != 4 || out[3] != 0 {
		t.Fatalf("expected a trailing zero byte for C888, got %v", out)
	}
}

func TestWriteTile_PlacesPixelsAtTileOrigin(t *testing.T) {
	vram := NewVRAM(1 << 16)
	cfg := validWriteoutConfig()

	pixels := make([]byte, TileSize*TileSize*4)
	for i := 0; i < TileSize*TileSize; i++ {
		pixels[i*4+0] = 0xF8 // top 5 red bits set
		pixels[i*4+1] = 0xFC // top 6 green bits set
		pixels[i*4+2] = 0xF8 // top 5 blue bits set
		pixels[i*4+3] = 0xFF
	}
	r := TileResult{TileX: 1, TileY: 2, Pixels: pixels}
	WriteTile(vram, cfg, r, 0)

	originX := r.TileX * TileSize
	originY := r.TileY * TileSize
	addr := cfg.SOF1 + uint32(originY)*cfg.LineStride + uint32(originX*2)
	b := vram.Bytes()
	v := uint16(b[addr]) | uint16(b[addr+1])<<8
	if v != 0xFFFF {
		t.Fatalf("expected all 565 bits set at the tile's origin address, got 0x%04X", v)
	}
}

func TestWriteTile_InterlaceSelectsFieldBase(t *testing.T) {
	vram := NewVRAM(1 << 16)
	cfg := validWriteoutConfig()
	cfg.Interlace = true

	pixels := make([]byte, TileSize*TileSize*4)
	for i := range pixels {
		pixels[i] = 0xAB
	}
	r := TileResult{TileX: 0, TileY: 0, Pixels: pixels}
	WriteTile(vram, cfg, r, 1)

	b := vram.Bytes()
	if b[cfg.SOF2] == 0 {
		t.Fatalf("expected field-1 writeout to land at SOF2, found zero byte at SOF2")
	}
}

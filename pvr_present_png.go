// pvr_present_png.go - PNG-dump presenter, no teacher analogue

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// PNGPresenter writes every published frame to disk as a numbered PNG.
// Useful for headless CI runs and golden-image comparisons; has no teacher
// counterpart since IntuitionEngine's video backends are all live displays.
type PNGPresenter struct {
	mu          sync.Mutex
	outDir      string
	started     bool
	config      DisplayConfig
	frameCount  uint64
	refreshRate int
}

func NewPNGPresenter(outDir string) *PNGPresenter {
	if outDir == "" {
		outDir = "."
	}
	return &PNGPresenter{
		outDir:      outDir,
		refreshRate: 60,
		config:      DisplayConfig{Width: pvrDefaultWidth, Height: pvrDefaultHeight, Scale: 1},
	}
}

func (p *PNGPresenter) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return &PresentError{Operation: "start", Details: "creating output directory", Err: err}
	}
	p.started = true
	return nil
}

func (p *PNGPresenter) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
	return nil
}

func (p *PNGPresenter) Close() error { return p.Stop() }

func (p *PNGPresenter) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

func (p *PNGPresenter) SetDisplayConfig(config DisplayConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	config.Scale = ClampScale(config.Scale)
	p.config = config
	return nil
}

func (p *PNGPresenter) GetDisplayConfig() DisplayConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// UpdateFrame encodes the RGBA8 buffer to out/frame-%06d.png, scaling up by
// nearest-neighbor when the configured Scale is >1.
func (p *PNGPresenter) UpdateFrame(buffer []byte) error {
	p.mu.Lock()
	w, h, scale := p.config.Width, p.config.Height, p.config.Scale
	dir := p.outDir
	p.mu.Unlock()

	if w <= 0 || h <= 0 {
		return &PresentError{Operation: "update frame", Details: "display config has zero dimensions"}
	}
	if len(buffer) < w*h*4 {
		return &PresentError{Operation: "update frame", Details: fmt.Sprintf("buffer too small: got %d bytes, want %d", len(buffer), w*h*4)}
	}

	src := &image.RGBA{
		Pix:    buffer[:w*h*4],
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}

	out := src.SubImage(src.Rect).(*image.RGBA)
	if scale > 1 {
		scaled := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)
		out = scaled
	}

	idx := atomic.AddUint64(&p.frameCount, 1) - 1
	path := filepath.Join(dir, fmt.Sprintf("frame-%06d.png", idx))
	f, err := os.Create(path)
	if err != nil {
		return &PresentError{Operation: "update frame", Details: "creating PNG file", Err: err}
	}
	defer f.Close()

	if err := png.Encode(f, out); err != nil {
		return &PresentError{Operation: "update frame", Details: "encoding PNG", Err: err}
	}
	return nil
}

func (p *PNGPresenter) WaitForVSync() error { return nil }

func (p *PNGPresenter) GetFrameCount() uint64 { return atomic.LoadUint64(&p.frameCount) }

func (p *PNGPresenter) GetRefreshRate() int { return p.refreshRate }

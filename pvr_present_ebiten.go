// pvr_present_ebiten.go - Ebiten window presenter for PVR frames

package main

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenPresenter displays PVRCore frames in a resizable window. PVR has no
// keyboard/text-input surface, so this carries none of the key-forwarding
// machinery a CPU-attached video output would.
type EbitenPresenter struct {
	running     bool
	window      *ebiten.Image
	width       int
	height      int
	scale       int
	windowedW   int
	windowedH   int
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64
	refreshRate int
	vsyncChan   chan struct{}
	fullscreen  bool
}

func NewEbitenPresenter() (*EbitenPresenter, error) {
	return &EbitenPresenter{
		width:       pvrDefaultWidth,
		height:      pvrDefaultHeight,
		scale:       1,
		windowedW:   pvrDefaultWidth,
		windowedH:   pvrDefaultHeight,
		frameBuffer: make([]byte, pvrDefaultWidth*pvrDefaultHeight*4),
		refreshRate: 60,
		vsyncChan:   make(chan struct{}, 1),
	}, nil
}

func (p *EbitenPresenter) Start() error {
	if p.running {
		return nil
	}
	p.running = true
	ebiten.SetWindowSize(p.windowedW, p.windowedH)
	ebiten.SetWindowTitle("PVR")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if p.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		if err := ebiten.RunGame(p); err != nil {
			fmt.Printf("presenter: ebiten error: %v\n", err)
		}
	}()

	<-p.vsyncChan
	return nil
}

func (p *EbitenPresenter) Stop() error {
	p.running = false
	return nil
}

func (p *EbitenPresenter) Close() error { return p.Stop() }

func (p *EbitenPresenter) IsStarted() bool { return p.running }

func (p *EbitenPresenter) UpdateFrame(data []byte) error {
	p.bufferMutex.Lock()
	copy(p.frameBuffer, data)
	p.bufferMutex.Unlock()
	return nil
}

func (p *EbitenPresenter) SetDisplayConfig(config DisplayConfig) error {
	p.bufferMutex.Lock()
	defer p.bufferMutex.Unlock()

	width, height := config.Width, config.Height
	if width <= 0 {
		width = p.width
	}
	if height <= 0 {
		height = p.height
	}
	p.width, p.height = width, height
	p.scale = ClampScale(config.Scale)
	newSize := p.width * p.height * 4
	if len(p.frameBuffer) != newSize {
		p.frameBuffer = make([]byte, newSize)
	}

	p.windowedW = p.width * p.scale
	p.windowedH = p.height * p.scale
	p.fullscreen = config.Fullscreen
	ebiten.SetFullscreen(p.fullscreen)
	if !p.fullscreen {
		ebiten.SetWindowSize(p.windowedW, p.windowedH)
	}
	if p.window != nil {
		p.window.Dispose()
		p.window = nil
	}
	return nil
}

func (p *EbitenPresenter) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:       p.width,
		Height:      p.height,
		Scale:       p.scale,
		RefreshRate: p.refreshRate,
		VSync:       true,
		Fullscreen:  p.fullscreen,
	}
}

func (p *EbitenPresenter) WaitForVSync() error {
	<-p.vsyncChan
	return nil
}

func (p *EbitenPresenter) GetFrameCount() uint64 { return p.frameCount }

func (p *EbitenPresenter) GetRefreshRate() int { return p.refreshRate }

func (p *EbitenPresenter) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if !p.running {
		return ebiten.Termination
	}
	return nil
}

func (p *EbitenPresenter) Draw(screen *ebiten.Image) {
	if p.window == nil {
		p.window = ebiten.NewImage(p.width, p.height)
	}

	p.bufferMutex.RLock()
	p.window.WritePixels(p.frameBuffer)
	p.bufferMutex.RUnlock()
	screen.DrawImage(p.window, nil)

	p.frameCount++
	select {
	case p.vsyncChan <- struct{}{}:
	default:
	}
}

func (p *EbitenPresenter) Layout(_, _ int) (int, int) {
	return p.width, p.height
}

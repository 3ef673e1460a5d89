// pvr_present.go - presenter interface shared by every PVR display back-end

package main

import (
	"fmt"
	"time"
)

// PresentError provides detailed error context for presenter operations.
type PresentError struct {
	Operation string
	Details   string
	Err       error
}

func (e *PresentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("present %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("present %s failed: %s", e.Operation, e.Details)
}

// FrameSnapshot is a complete rendered frame handed to a presenter.
type FrameSnapshot struct {
	Buffer    []byte // RGBA8
	Width     int
	Height    int
	Timestamp time.Time
}

// DisplayConfig is the hardware-independent configuration every presenter
// accepts.
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int
	RefreshRate int
	VSync       bool
	Fullscreen  bool
}

func ClampScale(s int) int {
	if s < 1 {
		return 1
	}
	if s > 4 {
		return 4
	}
	return s
}

// Presenter is the minimal contract a PVR output back-end implements. It
// consumes whatever PVRCore.GetFrame() produces (RGBA8) and is otherwise
// opaque to CORE/TA.
type Presenter interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error

	WaitForVSync() error
	GetFrameCount() uint64
	GetRefreshRate() int
}

// Predefined presenter backend types.
const (
	PresenterBackendEbiten = iota
	PresenterBackendHeadless
	PresenterBackendPNG
	PresenterBackendGPUTex
)

// NewPresenter creates a presenter for the named backend.
func NewPresenter(backend int, outDir string) (Presenter, error) {
	switch backend {
	case PresenterBackendEbiten:
		return NewEbitenPresenter()
	case PresenterBackendHeadless:
		return NewHeadlessPresenter(), nil
	case PresenterBackendPNG:
		return NewPNGPresenter(outDir), nil
	case PresenterBackendGPUTex:
		return NewGPUTexPresenter()
	}
	return nil, &PresentError{Operation: "backend creation", Details: fmt.Sprintf("unknown backend type: %d", backend)}
}

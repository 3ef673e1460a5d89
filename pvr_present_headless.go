// pvr_present_headless.go - no-op presenter for tests and headless hosts

package main

import "sync/atomic"

// HeadlessPresenter discards every frame. Used by tests and by hosts that
// only want PVRCore.GetFrame() without an on-screen window.
type HeadlessPresenter struct {
	started     bool
	config      DisplayConfig
	frameCount  uint64
	refreshRate int
}

func NewHeadlessPresenter() *HeadlessPresenter {
	return &HeadlessPresenter{refreshRate: 60}
}

func (h *HeadlessPresenter) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessPresenter) Stop() error {
	h.started = false
	return nil
}

func (h *HeadlessPresenter) Close() error {
	h.started = false
	return nil
}

func (h *HeadlessPresenter) IsStarted() bool { return h.started }

func (h *HeadlessPresenter) SetDisplayConfig(config DisplayConfig) error {
	h.config = config
	return nil
}

func (h *HeadlessPresenter) GetDisplayConfig() DisplayConfig { return h.config }

func (h *HeadlessPresenter) UpdateFrame(buffer []byte) error {
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

func (h *HeadlessPresenter) WaitForVSync() error { return nil }

func (h *HeadlessPresenter) GetFrameCount() uint64 { return atomic.LoadUint64(&h.frameCount) }

func (h *HeadlessPresenter) GetRefreshRate() int {
	if h.refreshRate == 0 {
		return 60
	}
	return h.refreshRate
}

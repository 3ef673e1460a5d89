//go:build headless

package main

// GPUTexPresenter wraps HeadlessPresenter in headless builds, where the
// cgo Vulkan binding isn't linked. Uses the same type/constructor name so
// the rest of the codebase compiles unchanged across both builds.
type GPUTexPresenter struct {
	*HeadlessPresenter
}

func NewGPUTexPresenter() (*GPUTexPresenter, error) {
	return &GPUTexPresenter{HeadlessPresenter: NewHeadlessPresenter()}, nil
}

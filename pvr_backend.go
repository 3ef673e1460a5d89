// pvr_backend.go - pluggable CORE rasterizer back-end trait

package main

// RasterBackend is the narrow contract the tile orchestrator drives. No
// internal state is observable except through these calls. A back-end must
// not be shared across goroutines: each tile worker owns exactly one
// instance, constructed fresh by the pool's back-end factory.
type RasterBackend interface {
	Init(tileWidth, tileHeight int) error

	// ClearBuffers clears color/tag/depth/stencil using bgTag as the
	// background fill tag and bgDepth as the clear depth.
	ClearBuffers(bgTag int, bgDepth float32)
	ClearParamBuffer()
	ClearPixelsDrawn()
	GetPixelsDrawn() int

	// PeelBuffers copies depth to a depth-reference buffer, then clears
	// depth and stencil, readying the next layer-peel pass.
	PeelBuffers()

	// AddFpuEntry registers a polygon's header in the tag cache for mode
	// (RenderModeOpaque / RenderModeTranslucent) and returns its tag.
	AddFpuEntry(header DrawParameters, mode int) int

	// RasterizeTriangle rasterizes v[0:3] into the tag buffer under tag.
	// When isQuad is set, v[3] is also used and the back-end splits the
	// quad into two triangles sharing the diagonal v[0]-v[2].
	RasterizeTriangle(tag int, v [4]Vertex, isQuad bool, parity int)

	SummarizeStencilOr()
	SummarizeStencilAnd()

	// RenderParamTags performs span-sort-and-shade from the tag buffer into
	// the tile color buffer for the given render mode.
	RenderParamTags(mode int)

	ClearFpuEntries()

	// GetColorOutputBuffer returns the tile's RGBA8 color buffer.
	GetColorOutputBuffer() []byte

	DebugOnFrameStart()
	DebugOnTileStart(tileX, tileY int)

	Destroy()
}

// RasterBackendFactory produces a fresh back-end instance, one per worker.
type RasterBackendFactory func() RasterBackend

// recordedCall captures one back-end method invocation for assertions in
// orchestrator property tests.
type recordedCall struct {
	name string
	args []any
}

// recordingBackend is a RasterBackend mock that records every call instead
// of rendering, used to test the orchestrator against §8's testable
// properties without depending on the software rasterizer's pixel output.
type recordingBackend struct {
	calls       []recordedCall
	pixelsDrawn int
	pixelsDrawnSeq []int // consumed in order by GetPixelsDrawn, for layer-peel termination tests
	nextTag     int
	colorBuf    []byte
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{}
}

func (b *recordingBackend) record(name string, args ...any) {
	b.calls = append(b.calls, recordedCall{name: name, args: args})
}

func (b *recordingBackend) Init(w, h int) error {
	b.record("Init", w, h)
	b.colorBuf = make([]byte, w*h*4)
	return nil
}

func (b *recordingBackend) ClearBuffers(bgTag int, bgDepth float32) { b.record("ClearBuffers", bgTag, bgDepth) }
func (b *recordingBackend) ClearParamBuffer()                        { b.record("ClearParamBuffer") }
func (b *recordingBackend) ClearPixelsDrawn()                        { b.record("ClearPixelsDrawn") }

func (b *recordingBackend) GetPixelsDrawn() int {
	if len(b.pixelsDrawnSeq) > 0 {
		v := b.pixelsDrawnSeq[0]
		b.pixelsDrawnSeq = b.pixelsDrawnSeq[1:]
		return v
	}
	return b.pixelsDrawn
}

func (b *recordingBackend) PeelBuffers() { b.record("PeelBuffers") }

func (b *recordingBackend) AddFpuEntry(header DrawParameters, mode int) int {
	b.record("AddFpuEntry", header, mode)
	tag := b.nextTag
	b.nextTag++
	return tag
}

func (b *recordingBackend) RasterizeTriangle(tag int, v [4]Vertex, isQuad bool, parity int) {
	b.record("RasterizeTriangle", tag, v, isQuad, parity)
}

func (b *recordingBackend) SummarizeStencilOr()  { b.record("SummarizeStencilOr") }
func (b *recordingBackend) SummarizeStencilAnd() { b.record("SummarizeStencilAnd") }
func (b *recordingBackend) RenderParamTags(mode int) { b.record("RenderParamTags", mode) }
func (b *recordingBackend) ClearFpuEntries()     { b.record("ClearFpuEntries") }

func (b *recordingBackend) GetColorOutputBuffer() []byte { return b.colorBuf }

func (b *recordingBackend) DebugOnFrameStart()              { b.record("DebugOnFrameStart") }
func (b *recordingBackend) DebugOnTileStart(x, y int)        { b.record("DebugOnTileStart", x, y) }
func (b *recordingBackend) Destroy()                          { b.record("Destroy") }

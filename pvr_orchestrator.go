// pvr_orchestrator.go - per-tile rendering orchestration

package main

// TileResult is what a tile worker hands to the writeout queue. Pixels is a
// defensive copy — the backend's color buffer is reused for the next tile
// as soon as RenderTile returns.
type TileResult struct {
	TileID int
	TileX  int
	TileY  int
	Pixels []byte
}

// TileOrchestrator drives one RasterBackend through the nine ordered steps
// of rendering a single tile: register the background tag, clear (unless
// z_keep), rasterize opaque, rasterize punch-through, rasterize modifier
// volumes with stencil summarize, resolve opaque, layer-peel translucent up
// to MaxLayerPeelPass, and finally invalidate the tag cache. One instance
// per tile worker, never shared.
type TileOrchestrator struct {
	vram          *VRAM
	shadowEnabled bool
	backend       RasterBackend
	log           Logger
}

func NewTileOrchestrator(vram *VRAM, shadowEnabled bool, backend RasterBackend, log Logger) *TileOrchestrator {
	return &TileOrchestrator{vram: vram, shadowEnabled: shadowEnabled, backend: backend, log: log}
}

// RenderTile renders entry against bgHeader (from ISP_BACKGND_T) and
// bgDepth (from ISP_BACKGND_D, the clear depth for this background tag),
// decoding object lists out of VRAM relative to paramBase (REG_PARAM_BASE,
// re-read fresh by the caller every frame), and returns (writeout, pixels).
// pixels is nil when the region entry's no_writeout flag suppresses
// framebuffer output.
func (o *TileOrchestrator) RenderTile(paramBase uint32, entry RegionEntry, bgHeader DrawParameters, bgDepth float32) (bool, []byte) {
	b := o.backend

	bgTag := b.AddFpuEntry(bgHeader, RenderModeOpaque)
	if !entry.ZKeep {
		b.ClearBuffers(bgTag, bgDepth)
	}

	o.rasterizeList(paramBase, entry.Opaque, RenderModeOpaque)
	o.rasterizeList(paramBase, entry.PunchThru, RenderModeOpaque)
	o.rasterizeModifierVolumes(paramBase, entry.OpaqueMod)

	b.RenderParamTags(RenderModeOpaque)

	o.peelTranslucent(paramBase, entry.Trans)

	b.ClearFpuEntries()

	if entry.NoWriteout {
		return false, nil
	}
	src := b.GetColorOutputBuffer()
	out := make([]byte, len(src))
	copy(out, src)
	return true, out
}

func (o *TileOrchestrator) rasterizeList(paramBase uint32, ptr RegionListPtr, mode int) {
	WalkObjectList(o.vram, paramBase, ptr, o.shadowEnabled, o.log, func(p Primitive) {
		tag := o.backend.AddFpuEntry(p.Header, mode)
		o.backend.RasterizeTriangle(tag, p.V, p.IsQuad, p.Parity)
	})
}

// rasterizeModifierVolumes renders opaque_mod as stencil-only geometry: every
// volume primitive writes into a scratch mask (via the reserved
// modifierVolumeTag), summarized into the tile's stencil buffer with a
// single OR pass. obj_ctrl carries no bit distinguishing union from
// exclusion volumes, so this reference always unions; SummarizeStencilAnd
// remains on the backend trait for a caller with an out-of-band volume mode.
func (o *TileOrchestrator) rasterizeModifierVolumes(paramBase uint32, ptr RegionListPtr) {
	if ptr.Empty {
		return
	}
	WalkObjectList(o.vram, paramBase, ptr, o.shadowEnabled, o.log, func(p Primitive) {
		o.backend.RasterizeTriangle(modifierVolumeTag, p.V, p.IsQuad, p.Parity)
	})
	o.backend.SummarizeStencilOr()
}

func (o *TileOrchestrator) peelTranslucent(paramBase uint32, ptr RegionListPtr) {
	if ptr.Empty {
		return
	}
	for pass := 0; pass < MaxLayerPeelPass; pass++ {
		o.backend.ClearParamBuffer()
		o.backend.ClearPixelsDrawn()
		o.backend.PeelBuffers()

		o.rasterizeList(paramBase, ptr, RenderModeTranslucent)

		if o.backend.GetPixelsDrawn() == 0 {
			break
		}
		o.backend.RenderParamTags(RenderModeTranslucent)
	}
}

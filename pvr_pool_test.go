// pvr_pool_test.go - tile worker pool routing and drain protocol tests

package main

import (
	"context"
	"testing"
)

func TestTilePool_SynchronousFallback(t *testing.T) {
	vram := NewVRAM(4096)
	pool := NewTilePool(0, func() RasterBackend { return newRecordingBackend() }, vram, true, discardLogger{})
	pool.Start(context.Background())

	entry := emptyEntry()
	entry.TileX, entry.TileY = 3, 5
	pool.Submit(0, entry, DrawParameters{}, 1.0)

	results := pool.FinishFrame()
	if len(results) != 1 {
		t.Fatalf("expected 1 result from synchronous submit, got %d", len(results))
	}
	if results[0].TileX != 3 || results[0].TileY != 5 {
		t.Fatalf("expected tile coordinates to survive the synchronous path, got (%d,%d)", results[0].TileX, results[0].TileY)
	}
	if err := pool.Shutdown(); err != nil {
		t.Fatalf("Shutdown on a synchronous (n=0) pool must be a no-op, got %v", err)
	}
}

func TestTilePool_SynchronousSkipsNoWriteoutTiles(t *testing.T) {
	vram := NewVRAM(4096)
	pool := NewTilePool(0, func() RasterBackend { return newRecordingBackend() }, vram, true, discardLogger{})
	pool.Start(context.Background())

	entry := emptyEntry()
	entry.NoWriteout = true
	pool.Submit(0, entry, DrawParameters{}, 1.0)

	results := pool.FinishFrame()
	if len(results) != 0 {
		t.Fatalf("expected no_writeout tiles to produce no result, got %d", len(results))
	}
}

func TestTilePool_RoutesAndDrainsConcurrently(t *testing.T) {
	vram := NewVRAM(4096)
	const n = 4
	pool := NewTilePool(n, func() RasterBackend { return newRecordingBackend() }, vram, true, discardLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	const tiles = 20
	for i := 0; i < tiles; i++ {
		entry := emptyEntry()
		entry.TileX = i % RegionTileCols
		entry.TileY = i / RegionTileCols
		pool.Submit(0, entry, DrawParameters{}, 1.0)
	}

	results := pool.FinishFrame()
	if len(results) != tiles {
		t.Fatalf("expected %d results from the worker pool, got %d", tiles, len(results))
	}

	seen := make(map[int]bool)
	for _, r := range results {
		seen[r.TileID] = true
	}
	if len(seen) != tiles {
		t.Fatalf("expected %d distinct tile ids, got %d", tiles, len(seen))
	}

	if err := pool.Shutdown(); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
}

func TestTilePool_FinishFrameIsReusableAcrossFrames(t *testing.T) {
	vram := NewVRAM(4096)
	pool := NewTilePool(2, func() RasterBackend { return newRecordingBackend() }, vram, true, discardLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	for frame := 0; frame < 3; frame++ {
		pool.Submit(0, emptyEntry(), DrawParameters{}, 1.0)
		pool.Submit(0, emptyEntry(), DrawParameters{}, 1.0)
		results := pool.FinishFrame()
		if len(results) != 2 {
			t.Fatalf("frame %d: expected 2 results, got %d", frame, len(results))
		}
	}

	if err := pool.Shutdown(); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
}

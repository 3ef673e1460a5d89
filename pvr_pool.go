// pvr_pool.go - tile worker pool: N workers, per-worker backend, main-thread writeout queue

package main

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

type tileJob struct {
	paramBase uint32
	entry     RegionEntry
	bgHeader  DrawParameters
	bgDepth   float32
}

// TilePool fans tiles out across N workers, routed by tileId % N, each
// owning a private RasterBackend built by factory and never shared across
// goroutines. Writeouts are funneled onto a single channel so the caller
// can push completed tiles to VRAM from one thread. N==0 runs everything
// synchronously on the caller's goroutine — useful for tests and for
// deterministic single-threaded hosts.
type TilePool struct {
	n             int
	factory       RasterBackendFactory
	vram          *VRAM
	shadowEnabled bool
	log           Logger

	queues  []chan tileJob
	results chan TileResult
	jobsWG  sync.WaitGroup
	group   *errgroup.Group

	syncMu      sync.Mutex
	syncResults []TileResult
}

func NewTilePool(n int, factory RasterBackendFactory, vram *VRAM, shadowEnabled bool, log Logger) *TilePool {
	return &TilePool{
		n:             n,
		factory:       factory,
		vram:          vram,
		shadowEnabled: shadowEnabled,
		log:           log,
		results:       make(chan TileResult, 256),
	}
}

// Start spawns the N worker goroutines. No-op when N==0.
func (p *TilePool) Start(ctx context.Context) {
	if p.n == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	p.group = g
	p.queues = make([]chan tileJob, p.n)

	for i := 0; i < p.n; i++ {
		q := make(chan tileJob, 64)
		p.queues[i] = q
		g.Go(func() error {
			return p.runWorker(gctx, q)
		})
	}
}

func (p *TilePool) runWorker(ctx context.Context, q chan tileJob) error {
	backend := p.factory()
	if err := backend.Init(TileSize, TileSize); err != nil {
		return err
	}
	defer backend.Destroy()

	orch := NewTileOrchestrator(p.vram, p.shadowEnabled, backend, p.log)

	for {
		select {
		case <-ctx.Done():
			return nil
		case job, ok := <-q:
			if !ok {
				return nil
			}
			p.renderAndPublish(orch, job)
			p.jobsWG.Done()
		}
	}
}

func (p *TilePool) renderAndPublish(orch *TileOrchestrator, job tileJob) {
	writeout, pixels := orch.RenderTile(job.paramBase, job.entry, job.bgHeader, job.bgDepth)
	if !writeout {
		return
	}
	p.results <- TileResult{
		TileID: job.entry.TileID(),
		TileX:  job.entry.TileX,
		TileY:  job.entry.TileY,
		Pixels: pixels,
	}
}

// Submit queues one tile for rendering. Blocks the caller synchronously
// when the pool has zero workers.
func (p *TilePool) Submit(paramBase uint32, entry RegionEntry, bgHeader DrawParameters, bgDepth float32) {
	if p.n == 0 {
		backend := p.factory()
		if err := backend.Init(TileSize, TileSize); err != nil {
			p.log.Logf("pool: synchronous backend init failed: %v", err)
			return
		}
		orch := NewTileOrchestrator(p.vram, p.shadowEnabled, backend, p.log)
		writeout, pixels := orch.RenderTile(paramBase, entry, bgHeader, bgDepth)
		backend.Destroy()
		if writeout {
			p.syncMu.Lock()
			p.syncResults = append(p.syncResults, TileResult{
				TileID: entry.TileID(),
				TileX:  entry.TileX,
				TileY:  entry.TileY,
				Pixels: pixels,
			})
			p.syncMu.Unlock()
		}
		return
	}

	idx := entry.TileID() % p.n
	p.jobsWG.Add(1)
	p.queues[idx] <- tileJob{paramBase: paramBase, entry: entry, bgHeader: bgHeader, bgDepth: bgDepth}
}

// drainOnce collects whatever writeouts are immediately available without
// blocking.
func (p *TilePool) drainOnce() []TileResult {
	p.syncMu.Lock()
	out := p.syncResults
	p.syncResults = nil
	p.syncMu.Unlock()

	for {
		select {
		case r := <-p.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// FinishFrame implements the pool's drain protocol: drain whatever is
// already queued, wait for every in-flight tile to finish, then drain
// once more to pick up what finished during the wait.
func (p *TilePool) FinishFrame() []TileResult {
	out := p.drainOnce()
	p.jobsWG.Wait()
	out = append(out, p.drainOnce()...)
	return out
}

// Shutdown closes worker input queues and waits for every worker goroutine
// to exit. The pool must not be reused afterward.
func (p *TilePool) Shutdown() error {
	if p.n == 0 {
		return nil
	}
	for _, q := range p.queues {
		close(q)
	}
	return p.group.Wait()
}

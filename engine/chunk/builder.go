package chunk

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// BuildResult is a finished chunk mesh handed from a worker to the submission path. Once sent,
// the worker keeps no reference to the mesh.
type BuildResult struct {
	Coord   Coord
	Version uint64
	Mesh    Mesh
}

type builderImpl struct {
	mu *sync.Mutex
	wg *sync.WaitGroup

	pool      worker.DynamicWorkerPool
	atlas     Atlas
	workers   int
	queueSize int
	taskID    int
	stopped   bool

	// pending holds the newest accepted version per coord until its result is drained.
	pending map[Coord]uint64

	// backlog holds snapshots waiting for a pool slot, newest version per coord, dispatched in
	// order. inFlight never exceeds queueSize, so the pool's task queue never fills.
	backlog  map[Coord]Snapshot
	order    []Coord
	inFlight int

	// results is the handoff channel; overflow catches what does not fit so workers never wait
	// on the frame loop.
	results  chan BuildResult
	overflow []BuildResult
}

// Builder meshes chunks on a worker pool. Submit snapshots the chunk on the caller's goroutine,
// so workers never touch live chunk data; results come back through a buffered handoff that the
// frame loop drains. Neither Submit nor the workers block on the frame loop.
type Builder interface {
	// Submit queues a chunk for meshing without blocking. A chunk whose current version is
	// already queued is skipped; a newer version replaces one still waiting for a worker.
	//
	// Parameters:
	//   - c: the chunk to mesh
	//
	// Returns:
	//   - bool: true if the version was accepted
	Submit(c Chunk) bool

	// Drain collects every finished mesh without blocking.
	//
	// Returns:
	//   - []BuildResult: the finished meshes, possibly empty
	Drain() []BuildResult

	// Wait blocks until every accepted version has been meshed. It does not need a concurrent
	// Drain.
	Wait()

	// Stop stops the worker pool and drops the backlog. Submit is a no-op afterwards and Wait
	// must not be called.
	Stop()
}

var _ Builder = &builderImpl{}

// NewBuilder creates a Builder with its worker pool started.
//
// Parameters:
//   - options: functional options applied after defaults
//
// Returns:
//   - Builder: the builder
func NewBuilder(options ...BuilderOption) Builder {
	b := &builderImpl{
		mu:        &sync.Mutex{},
		wg:        &sync.WaitGroup{},
		atlas:     Atlas{Columns: 1, Rows: 1},
		workers:   4,
		queueSize: 256,
		pending:   make(map[Coord]uint64),
		backlog:   make(map[Coord]Snapshot),
	}
	for _, option := range options {
		option(b)
	}
	b.results = make(chan BuildResult, b.queueSize)
	b.pool = worker.NewDynamicWorkerPool(b.workers, b.queueSize, 1*time.Second)
	return b
}

func (b *builderImpl) Submit(c Chunk) bool {
	snap := c.Snapshot()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return false
	}
	if v, ok := b.pending[snap.Coord]; ok && v == snap.Version {
		return false
	}
	b.pending[snap.Coord] = snap.Version

	if _, waiting := b.backlog[snap.Coord]; waiting {
		b.backlog[snap.Coord] = snap
		return true
	}
	b.wg.Add(1)
	b.backlog[snap.Coord] = snap
	b.order = append(b.order, snap.Coord)
	b.dispatchLocked()
	return true
}

// dispatchLocked moves backlog entries to the pool while there is room. b.mu must be held.
func (b *builderImpl) dispatchLocked() {
	for b.inFlight < b.queueSize && len(b.order) > 0 && !b.stopped {
		coord := b.order[0]
		b.order = b.order[1:]
		snap := b.backlog[coord]
		delete(b.backlog, coord)

		b.inFlight++
		id := b.taskID
		b.taskID++
		atlas := b.atlas
		b.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				b.deliver(BuildResult{Coord: snap.Coord, Version: snap.Version, Mesh: BuildMesh(&snap, atlas)})
				return nil, nil
			},
		})
	}
}

// deliver hands a result off without waiting for a reader and frees the worker slot.
func (b *builderImpl) deliver(r BuildResult) {
	b.mu.Lock()
	select {
	case b.results <- r:
	default:
		b.overflow = append(b.overflow, r)
	}
	b.inFlight--
	b.dispatchLocked()
	b.mu.Unlock()
	b.wg.Done()
}

func (b *builderImpl) Drain() []BuildResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Writers hold b.mu too, so the length cannot change underneath.
	out := make([]BuildResult, 0, len(b.results)+len(b.overflow))
	for len(b.results) > 0 {
		out = append(out, <-b.results)
	}
	out = append(out, b.overflow...)
	b.overflow = nil

	for _, r := range out {
		if b.pending[r.Coord] == r.Version {
			delete(b.pending, r.Coord)
		}
	}
	return out
}

func (b *builderImpl) Wait() {
	b.wg.Wait()
}

func (b *builderImpl) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	submitted := b.taskID
	dropped := len(b.order)
	b.order = nil
	clear(b.backlog)
	b.mu.Unlock()

	b.wg.Add(-dropped)
	b.pool.Stop()
	log.Printf("[ChunkBuilder] stopped after %d tasks, %d dropped", submitted, dropped)
}

package chunk

// BuilderOption is a functional option used to configure a Builder during construction.
type BuilderOption func(*builderImpl)

// WithWorkers sets the number of meshing workers. Values below 1 are raised to 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - BuilderOption: a function that sets the worker count
func WithWorkers(n int) BuilderOption {
	return func(b *builderImpl) {
		b.workers = max(n, 1)
	}
}

// WithQueueSize sets how many chunks may be queued on or running in the worker pool at once, and
// the capacity of the results channel. Chunks beyond it wait in the builder backlog.
//
// Parameters:
//   - n: the capacity, at least 1
//
// Returns:
//   - BuilderOption: a function that sets the capacity
func WithQueueSize(n int) BuilderOption {
	return func(b *builderImpl) {
		b.queueSize = max(n, 1)
	}
}

// WithAtlas sets the texture atlas used to pick per-block UVs.
//
// Parameters:
//   - atlas: the atlas layout
//
// Returns:
//   - BuilderOption: a function that sets the atlas
func WithAtlas(atlas Atlas) BuilderOption {
	return func(b *builderImpl) {
		b.atlas = atlas
	}
}

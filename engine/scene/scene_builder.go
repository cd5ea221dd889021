package scene

// Option is a functional option for configuring a Scene at construction
// time, following the same defaults-then-apply-options pattern used by
// every other builder in this module (engine.NewEngine, camera.NewCamera,
// pipeline.NewPipeline).
type Option func(*sceneImpl)

// WithCapacityHint pre-allocates node storage for the expected node
// count, avoiding repeated slice growth for scenes known to host many
// nodes up front.
func WithCapacityHint(nodes int) Option {
	return func(s *sceneImpl) {
		if nodes > 0 {
			s.nodes = make([]node, 0, nodes)
		}
	}
}

// NewWithOptions constructs an empty Scene with a live root node, applying
// opts after the defaults are in place but before the root node is
// created (so capacity hints take effect before any allocation).
func NewWithOptions(opts ...Option) Scene {
	s := &sceneImpl{}
	for _, opt := range opts {
		opt(s)
	}
	return finishNew(s)
}

package scene

import "errors"

// ErrUnknownHandle is returned whenever a Handle does not resolve to a
// live node in the Scene it is passed to — either it was never valid for
// this Scene, or the node it named has since been destroyed.
var ErrUnknownHandle = errors.New("scene: unknown handle")

// ErrReparentCycle is returned by SetParent when the requested new parent
// is the node itself or one of its own descendants. The hierarchy is left
// unchanged.
var ErrReparentCycle = errors.New("scene: reparent would introduce a cycle")

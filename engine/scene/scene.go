// Package scene implements the typed node hierarchy described in
// SPEC_FULL.md §4.D: a flat, handle-indexed node table with per-type
// buckets, hierarchical affine transforms, and depth-first subtree
// destruction. The free-list allocation and dirty-flag propagation
// strategy are grounded on gviegas-neo3/node's Graph, re-expressed as an
// interface over an unexported implementation in the style the rest of
// this module's packages already use.
package scene

import (
	"iter"

	"github.com/oxy2d/engine/identifier"
	"github.com/oxy2d/engine/transform2d"
)

// Scene owns a flat storage of nodes indexed by Handle, plus a root node
// with implicit identity transform. Every non-root node's parent handle
// is guaranteed to resolve to a live node in the same Scene.
type Scene interface {
	// Root returns the handle of the scene's implicit root node. The root
	// always has an identity local transform and cannot be destroyed.
	Root() Handle

	// CreateNode constructs a node tagged with typeTag, attaches it under
	// parent (the root, if parent is NilHandle), and stores data as its
	// type-specific component payload. The node's type-bucket entry is
	// appended before CreateNode returns.
	CreateNode(typeTag identifier.Identifier, parent Handle, data any) (Handle, error)

	// DestroyNode destroys the subtree rooted at handle, depth-first.
	// Children are destroyed before their parent; the parent's child
	// list is spliced and every destroyed node's type-bucket entry is
	// removed in O(bucket size).
	DestroyNode(handle Handle) error

	// SetParent detaches handle from its current parent's child list and
	// attaches it to newParent's child list, marking handle (and its
	// descendants) dirty. Rejects cycles with ErrReparentCycle and leaves
	// the hierarchy unchanged on failure.
	SetParent(handle, newParent Handle) error

	// SetLocalTransform overwrites handle's local transform, marking it
	// and its descendants dirty.
	SetLocalTransform(handle Handle, t transform2d.T) error

	// LocalTransform returns handle's local transform.
	LocalTransform(handle Handle) (transform2d.T, error)

	// WorldTransform returns handle's cached world transform, recomputing
	// it by walking up to the nearest clean ancestor and pushing the
	// composed product back down if handle is dirty.
	WorldTransform(handle Handle) (transform2d.T, error)

	// NodesOfType yields live nodes of exactly typeTag in unspecified but
	// stable-within-a-frame order. Destroying a node while ranging over
	// the returned sequence is undefined behavior.
	NodesOfType(typeTag identifier.Identifier) iter.Seq[Handle]

	// NodeData returns the type-specific payload passed to CreateNode.
	NodeData(handle Handle) (any, bool)

	// TypeTag returns the type tag a node was created with.
	TypeTag(handle Handle) (identifier.Identifier, bool)

	// Parent returns handle's parent, or NilHandle for the root.
	Parent(handle Handle) (Handle, bool)

	// Children returns a defensive copy of handle's child list.
	Children(handle Handle) ([]Handle, bool)

	// Count returns the number of live nodes, including the root.
	Count() int
}

type node struct {
	alive      bool
	generation uint32
	typeTag    identifier.Identifier
	parent     Handle
	children   []Handle
	local      transform2d.T
	world      transform2d.T
	dirty      bool
	data       any

	bucketPos int // index of this node's Handle within its type bucket
}

type sceneImpl struct {
	nodes   []node
	freeIdx []uint32
	buckets map[identifier.Identifier][]Handle
	root    Handle
}

var _ Scene = &sceneImpl{}

// New constructs an empty Scene with a live root node.
func New() Scene {
	s := &sceneImpl{
		buckets: make(map[identifier.Identifier][]Handle),
	}
	return finishNew(s)
}

// finishNew attaches the implicit root node to a freshly allocated
// sceneImpl. Shared by New and NewWithOptions (scene_builder.go) so the
// root-creation invariant lives in exactly one place.
func finishNew(s *sceneImpl) Scene {
	if s.buckets == nil {
		s.buckets = make(map[identifier.Identifier][]Handle)
	}
	rootTag := identifier.MustIntern("oxy2d.root")
	root, err := s.CreateNode(rootTag, NilHandle, nil)
	if err != nil {
		// Creating the very first node can only fail if allocation
		// fails, which CreateNode does not do on an empty scene.
		panic(err)
	}
	s.root = root
	return s
}

func (s *sceneImpl) Root() Handle {
	return s.root
}

func (s *sceneImpl) alloc() (uint32, *node) {
	if n := len(s.freeIdx); n > 0 {
		idx := s.freeIdx[n-1]
		s.freeIdx = s.freeIdx[:n-1]
		return idx, &s.nodes[idx]
	}
	// Generations start at 1 so that no live node's Handle equals NilHandle.
	s.nodes = append(s.nodes, node{generation: 1})
	idx := uint32(len(s.nodes) - 1)
	return idx, &s.nodes[idx]
}

func (s *sceneImpl) resolve(h Handle) (*node, bool) {
	if int(h.Index) >= len(s.nodes) {
		return nil, false
	}
	n := &s.nodes[h.Index]
	if !n.alive || n.generation != h.Generation {
		return nil, false
	}
	return n, true
}

func (s *sceneImpl) CreateNode(typeTag identifier.Identifier, parent Handle, data any) (Handle, error) {
	// NilHandle means the root; only the root itself (created before
	// s.root is set) is left without a parent.
	if parent.IsNil() && !s.root.IsNil() {
		parent = s.root
	}
	if !parent.IsNil() {
		if _, ok := s.resolve(parent); !ok {
			return Handle{}, ErrUnknownHandle
		}
	}

	idx, n := s.alloc()
	n.alive = true
	n.typeTag = typeTag
	n.parent = parent
	n.children = nil
	n.local = transform2d.Identity()
	n.world = transform2d.Identity()
	n.dirty = true // world is computed from the parent on first query
	n.data = data

	h := Handle{Index: idx, Generation: n.generation}

	if !parent.IsNil() {
		pn, _ := s.resolve(parent)
		pn.children = append(pn.children, h)
	}

	bucket := s.buckets[typeTag]
	n.bucketPos = len(bucket)
	s.buckets[typeTag] = append(bucket, h)

	return h, nil
}

func (s *sceneImpl) removeFromBucket(h Handle, n *node) {
	bucket := s.buckets[n.typeTag]
	last := len(bucket) - 1
	if n.bucketPos != last {
		moved := bucket[last]
		bucket[n.bucketPos] = moved
		if mn, ok := s.resolve(moved); ok {
			mn.bucketPos = n.bucketPos
		}
	}
	s.buckets[n.typeTag] = bucket[:last]
}

func (s *sceneImpl) removeFromParent(h Handle, n *node) {
	if n.parent.IsNil() {
		return
	}
	pn, ok := s.resolve(n.parent)
	if !ok {
		return
	}
	for i, c := range pn.children {
		if c == h {
			pn.children = append(pn.children[:i], pn.children[i+1:]...)
			break
		}
	}
}

func (s *sceneImpl) DestroyNode(handle Handle) error {
	n, ok := s.resolve(handle)
	if !ok {
		return ErrUnknownHandle
	}
	s.removeFromParent(handle, n)
	s.destroySubtree(handle)
	return nil
}

// destroySubtree destroys handle and every descendant, depth-first,
// without touching the (already-detached, or root) parent link.
func (s *sceneImpl) destroySubtree(handle Handle) {
	n, ok := s.resolve(handle)
	if !ok {
		return
	}
	children := n.children
	n.children = nil
	for _, c := range children {
		s.destroySubtree(c)
	}

	s.removeFromBucket(handle, n)
	n.alive = false
	n.data = nil
	n.generation++
	s.freeIdx = append(s.freeIdx, handle.Index)
}

func (s *sceneImpl) isDescendant(ancestor, candidate Handle) bool {
	n, ok := s.resolve(candidate)
	if !ok {
		return false
	}
	for cur := n.parent; !cur.IsNil(); {
		if cur == ancestor {
			return true
		}
		cn, ok := s.resolve(cur)
		if !ok {
			return false
		}
		cur = cn.parent
	}
	return false
}

func (s *sceneImpl) SetParent(handle, newParent Handle) error {
	n, ok := s.resolve(handle)
	if !ok {
		return ErrUnknownHandle
	}
	if !newParent.IsNil() {
		if _, ok := s.resolve(newParent); !ok {
			return ErrUnknownHandle
		}
	}
	if handle == newParent || s.isDescendant(handle, newParent) {
		return ErrReparentCycle
	}

	s.removeFromParent(handle, n)
	n.parent = newParent
	if !newParent.IsNil() {
		pn, _ := s.resolve(newParent)
		pn.children = append(pn.children, handle)
	}
	s.markDirty(handle, n)
	return nil
}

func (s *sceneImpl) markDirty(handle Handle, n *node) {
	if n.dirty {
		return
	}
	n.dirty = true
	for _, c := range n.children {
		if cn, ok := s.resolve(c); ok {
			s.markDirty(c, cn)
		}
	}
}

func (s *sceneImpl) SetLocalTransform(handle Handle, t transform2d.T) error {
	n, ok := s.resolve(handle)
	if !ok {
		return ErrUnknownHandle
	}
	n.local = t
	s.markDirty(handle, n)
	return nil
}

func (s *sceneImpl) LocalTransform(handle Handle) (transform2d.T, error) {
	n, ok := s.resolve(handle)
	if !ok {
		return transform2d.T{}, ErrUnknownHandle
	}
	return n.local, nil
}

func (s *sceneImpl) WorldTransform(handle Handle) (transform2d.T, error) {
	n, ok := s.resolve(handle)
	if !ok {
		return transform2d.T{}, ErrUnknownHandle
	}
	return s.worldOf(n), nil
}

func (s *sceneImpl) worldOf(n *node) transform2d.T {
	if !n.dirty {
		return n.world
	}
	parentWorld := transform2d.Identity()
	if !n.parent.IsNil() {
		if pn, ok := s.resolve(n.parent); ok {
			parentWorld = s.worldOf(pn)
		}
	}
	n.world = transform2d.Compose(parentWorld, n.local)
	n.dirty = false
	return n.world
}

func (s *sceneImpl) NodesOfType(typeTag identifier.Identifier) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for _, h := range s.buckets[typeTag] {
			if !yield(h) {
				return
			}
		}
	}
}

func (s *sceneImpl) NodeData(handle Handle) (any, bool) {
	n, ok := s.resolve(handle)
	if !ok {
		return nil, false
	}
	return n.data, true
}

func (s *sceneImpl) TypeTag(handle Handle) (identifier.Identifier, bool) {
	n, ok := s.resolve(handle)
	if !ok {
		return identifier.None, false
	}
	return n.typeTag, true
}

func (s *sceneImpl) Parent(handle Handle) (Handle, bool) {
	n, ok := s.resolve(handle)
	if !ok {
		return Handle{}, false
	}
	return n.parent, true
}

func (s *sceneImpl) Children(handle Handle) ([]Handle, bool) {
	n, ok := s.resolve(handle)
	if !ok {
		return nil, false
	}
	out := make([]Handle, len(n.children))
	copy(out, n.children)
	return out, true
}

func (s *sceneImpl) Count() int {
	count := 0
	for _, n := range s.nodes {
		if n.alive {
			count++
		}
	}
	return count
}

// CreateTyped is a thin generic wrapper over Scene.CreateNode, mirroring
// the distilled spec's create_node<T>(parent?) contract.
func CreateTyped[T any](s Scene, typeTag identifier.Identifier, parent Handle, data T) (Handle, error) {
	return s.CreateNode(typeTag, parent, data)
}

// Typed retrieves handle's component payload as type T.
func Typed[T any](s Scene, handle Handle) (T, bool) {
	var zero T
	raw, ok := s.NodeData(handle)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// MutateTyped reads handle's component payload as type T, applies fn to
// a copy, and writes the result back as the new payload. It is the
// mutation path typed node helpers (geometry_node.go, sprite_node.go)
// build their setters on, since Scene only exposes NodeData as `any`.
func MutateTyped[T any](s Scene, handle Handle, fn func(T) T) error {
	v, ok := Typed[T](s, handle)
	if !ok {
		return ErrUnknownHandle
	}
	sImpl, ok := s.(*sceneImpl)
	if !ok {
		return ErrUnknownHandle
	}
	n, ok := sImpl.resolve(handle)
	if !ok {
		return ErrUnknownHandle
	}
	n.data = fn(v)
	return nil
}

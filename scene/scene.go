// Package scene provides the entity store the UI system runs on.
//
// Entities are plain integer handles. Components are stored in typed side
// tables, one per Go type, and every entity carries a Signature bitset naming
// the component types it holds, so "does entity X have Y" is a single bit test.
//
// The store also owns the parent/child hierarchy. Iteration over entities is
// always in hierarchy order: a parent comes before its children, and siblings
// keep the order in which they were attached (MoveChildToTop moves an entity to
// the end of its siblings). Reverse hierarchy order visits children before
// their parent.
package scene

import (
	"fmt"
	"reflect"
)

// Entity is a handle to an object in the scene.
type Entity uint32

// NullEntity is the zero handle. It never refers to a live entity.
const NullEntity Entity = 0

// ComponentType is the index of a registered component type.
type ComponentType uint8

// MaxComponentTypes bounds the number of distinct component types per scene.
const MaxComponentTypes = 64

// Signature is the set of component types an entity holds.
type Signature uint64

// Test reports whether t is in the set.
func (s Signature) Test(t ComponentType) bool { return s&(1<<t) != 0 }

// Set adds t to the set.
func (s *Signature) Set(t ComponentType) { *s |= 1 << t }

// Reset removes t from the set.
func (s *Signature) Reset(t ComponentType) { *s &^= 1 << t }

// componentStore is the type-erased view of a side table.
type componentStore interface {
	remove(e Entity)
}

type typedStore[T any] struct {
	data map[Entity]*T
}

func (s *typedStore[T]) remove(e Entity) { delete(s.data, e) }

// Scene holds entities, their components and their hierarchy.
// A Scene is not safe for concurrent use; the UI pipeline runs on one thread.
type Scene struct {
	nextEntity Entity

	signatures map[Entity]Signature
	types      map[reflect.Type]ComponentType
	stores     []componentStore

	// Hierarchy. roots and children keep attachment order.
	parents  map[Entity]Entity
	children map[Entity][]Entity
	roots    []Entity

	order      []Entity
	orderDirty bool

	destroyHooks []func(Entity)
	removeHooks  []func(Entity, ComponentType)
	destroying   map[Entity]bool
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		signatures: make(map[Entity]Signature),
		types:      make(map[reflect.Type]ComponentType),
		parents:    make(map[Entity]Entity),
		children:   make(map[Entity][]Entity),
		destroying: make(map[Entity]bool),
	}
}

// CreateEntity allocates a new root entity with no components.
func (s *Scene) CreateEntity() Entity {
	s.nextEntity++
	e := s.nextEntity
	s.signatures[e] = 0
	s.roots = append(s.roots, e)
	s.orderDirty = true
	return e
}

// Exists reports whether e is a live entity.
func (s *Scene) Exists(e Entity) bool {
	_, ok := s.signatures[e]
	return ok
}

// Signature returns the component set of e. Unknown entities have an empty set.
func (s *Scene) Signature(e Entity) Signature {
	return s.signatures[e]
}

// OnEntityDestroyed registers fn to run when an entity is destroyed, before its
// components and children are removed.
func (s *Scene) OnEntityDestroyed(fn func(Entity)) {
	s.destroyHooks = append(s.destroyHooks, fn)
}

// OnComponentRemoved registers fn to run when RemoveComponent detaches a
// component, while the component is still readable. It does not run for
// components dropped by DestroyEntity.
func (s *Scene) OnComponentRemoved(fn func(Entity, ComponentType)) {
	s.removeHooks = append(s.removeHooks, fn)
}

// DestroyEntity removes e, its components and all of its descendants.
// Destroy hooks run for e first, so systems can release what they own while
// the entity is still readable. Destroying a dead entity is a no-op.
func (s *Scene) DestroyEntity(e Entity) {
	if !s.Exists(e) || s.destroying[e] {
		return
	}
	s.destroying[e] = true
	defer delete(s.destroying, e)

	for _, hook := range s.destroyHooks {
		hook(e)
	}

	// Hooks may have destroyed some children already.
	kids := append([]Entity(nil), s.children[e]...)
	for _, child := range kids {
		s.DestroyEntity(child)
	}

	sig := s.signatures[e]
	for t, store := range s.stores {
		if sig.Test(ComponentType(t)) {
			store.remove(e)
		}
	}

	s.detach(e)
	delete(s.children, e)
	delete(s.signatures, e)
	s.orderDirty = true
}

// Register returns the component type index for T, registering it on first use.
func Register[T any](s *Scene) ComponentType {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if t, ok := s.types[rt]; ok {
		return t
	}
	if len(s.stores) >= MaxComponentTypes {
		panic(fmt.Sprintf("scene: too many component types registering %v", rt))
	}
	t := ComponentType(len(s.stores))
	s.types[rt] = t
	s.stores = append(s.stores, &typedStore[T]{data: make(map[Entity]*T)})
	return t
}

func storeFor[T any](s *Scene) (*typedStore[T], ComponentType) {
	t := Register[T](s)
	return s.stores[t].(*typedStore[T]), t
}

// AddComponent attaches c to e and returns a pointer to the stored copy.
// An existing component of the same type is replaced.
func AddComponent[T any](s *Scene, e Entity, c T) *T {
	if !s.Exists(e) {
		panic(fmt.Sprintf("scene: AddComponent on dead entity %d", e))
	}
	store, t := storeFor[T](s)
	p := new(T)
	*p = c
	store.data[e] = p
	sig := s.signatures[e]
	sig.Set(t)
	s.signatures[e] = sig
	if tr, ok := any(p).(*Transform); ok {
		tr.Parent = s.parents[e]
	}
	return p
}

// GetComponent returns the component of type T held by e.
// It panics if e does not hold one; use FindComponent for optional lookups.
func GetComponent[T any](s *Scene, e Entity) *T {
	c := FindComponent[T](s, e)
	if c == nil {
		var zero T
		panic(fmt.Sprintf("scene: entity %d has no %T component", e, zero))
	}
	return c
}

// FindComponent returns the component of type T held by e, or nil.
func FindComponent[T any](s *Scene, e Entity) *T {
	if e == NullEntity {
		return nil
	}
	store, _ := storeFor[T](s)
	return store.data[e]
}

// RemoveComponent detaches the component of type T from e, if present.
func RemoveComponent[T any](s *Scene, e Entity) {
	store, t := storeFor[T](s)
	if _, ok := store.data[e]; !ok {
		return
	}
	for _, hook := range s.removeHooks {
		hook(e, t)
	}
	delete(store.data, e)
	sig := s.signatures[e]
	sig.Reset(t)
	s.signatures[e] = sig
}

// AddEntityChild makes child the last child of parent. Passing NullEntity as
// parent detaches child and makes it a root again.
func (s *Scene) AddEntityChild(parent, child Entity) {
	if !s.Exists(child) || child == parent {
		return
	}
	if parent != NullEntity && (!s.Exists(parent) || s.isAncestor(child, parent)) {
		return
	}
	s.detach(child)
	if parent == NullEntity {
		s.roots = append(s.roots, child)
	} else {
		s.parents[child] = parent
		s.children[parent] = append(s.children[parent], child)
	}
	if tr := FindComponent[Transform](s, child); tr != nil {
		tr.Parent = parent
		tr.NeedUpdate = true
	}
	s.orderDirty = true
}

// Parent returns the parent of e, or NullEntity for roots.
func (s *Scene) Parent(e Entity) Entity {
	return s.parents[e]
}

// Children returns the children of e in sibling order. The slice must not be
// modified.
func (s *Scene) Children(e Entity) []Entity {
	return s.children[e]
}

// MoveChildToTop moves e to the end of its sibling list, so it is visited
// last among its siblings and drawn above them.
func (s *Scene) MoveChildToTop(e Entity) {
	if !s.Exists(e) {
		return
	}
	if p, ok := s.parents[e]; ok {
		s.children[p] = moveToEnd(s.children[p], e)
	} else {
		s.roots = moveToEnd(s.roots, e)
	}
	s.orderDirty = true
}

// AppendEntities appends every entity holding component type t to dst in
// hierarchy order and returns the extended slice.
func (s *Scene) AppendEntities(dst []Entity, t ComponentType) []Entity {
	for _, e := range s.hierarchyOrder() {
		if s.signatures[e].Test(t) {
			dst = append(dst, e)
		}
	}
	return dst
}

func (s *Scene) hierarchyOrder() []Entity {
	if !s.orderDirty {
		return s.order
	}
	s.order = s.order[:0]
	var walk func(e Entity)
	walk = func(e Entity) {
		s.order = append(s.order, e)
		for _, c := range s.children[e] {
			walk(c)
		}
	}
	for _, r := range s.roots {
		walk(r)
	}
	s.orderDirty = false
	return s.order
}

func (s *Scene) detach(e Entity) {
	if p, ok := s.parents[e]; ok {
		s.children[p] = remove(s.children[p], e)
		delete(s.parents, e)
	} else {
		s.roots = remove(s.roots, e)
	}
}

// isAncestor reports whether a is an ancestor of e.
func (s *Scene) isAncestor(a, e Entity) bool {
	for p, ok := s.parents[e]; ok; p, ok = s.parents[p] {
		if p == a {
			return true
		}
	}
	return false
}

func remove(list []Entity, e Entity) []Entity {
	for i, v := range list {
		if v == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func moveToEnd(list []Entity, e Entity) []Entity {
	list = remove(list, e)
	return append(list, e)
}

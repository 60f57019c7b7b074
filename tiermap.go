// Package tiermap implements a hierarchical associative container: a family
// tree of map nodes where every node sees the union of its own entries and
// its ancestors' entries. Writes cascade toward the root, removals cascade
// toward the leaves, and Inherit pulls root values down into descendants.
//
// The structure suits layered configuration and scoped shared state, e.g. a
// server-wide registry with per-channel or per-session overlays.
//
// A family is not safe for concurrent use. Callers that share a family across
// goroutines must serialise access externally; the cascading operations touch
// multiple nodes and cannot be made atomic with per-node locking.
package tiermap

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrSiblingOfRoot indicates Sibling was called on a root node, which has
	// no parent for the sibling to attach to.
	ErrSiblingOfRoot = errors.New("tiermap: cannot create sibling of a root map")
	// ErrDetachRoot indicates Detach was called on a node that is already a
	// root and has no parent to detach from.
	ErrDetachRoot = errors.New("tiermap: cannot detach a root map")
)

// Map is one node in a tiered map family. Each node owns its local entries
// and its children; the parent link is a non-owning back-reference. The
// zero value is not usable, construct nodes via New, NewFrom, NewFromMap,
// Child or Sibling.
//
// The family maintains, procedurally, the invariant that a root's local data
// is a superset of every descendant's data: Put and PutAll write through to
// the root, Remove clears a key from the whole subtree, and Inherit copies
// ancestor values downward. Callers that mutate local data through Clear or
// seed nodes out of band take on responsibility for that invariant; the
// family-wide lookups (ContainsKeyInFamily, ContainsValueInFamily) consult
// only the root and rely on it.
type Map[K comparable, V any] struct {
	id       string
	parent   *Map[K, V]
	children []*Map[K, V]
	data     map[K]V

	// shared by every node of the family, assigned at root creation
	cfg *familyConfig
}

// New constructs a fresh root map with empty local data.
func New[K comparable, V any](opts ...Option) *Map[K, V] {
	cfg := applyOptions(opts)
	return &Map[K, V]{
		id:   uuid.NewString(),
		data: map[K]V{},
		cfg:  &cfg,
	}
}

// NewFrom constructs a root map seeded with a shallow copy of source. The
// new map keeps no reference to source.
func NewFrom[K comparable, V any](source map[K]V, opts ...Option) *Map[K, V] {
	m := New[K, V](opts...)
	maps.Copy(m.data, source)
	return m
}

// NewFromMap constructs a root map seeded with a shallow copy of source's
// current local data. The new map is a root with no tree link to source.
func NewFromMap[K comparable, V any](source *Map[K, V], opts ...Option) *Map[K, V] {
	m := New[K, V](opts...)
	if source != nil {
		maps.Copy(m.data, source.data)
	}
	return m
}

// ID returns the node identifier assigned at construction. IDs are unique
// per node and surface in hooks events and lookup traces.
func (m *Map[K, V]) ID() string {
	return m.id
}

// Child creates an empty map with m as its parent, appends it to m's
// children and returns it. The child shares the family configuration.
func (m *Map[K, V]) Child() *Map[K, V] {
	child := &Map[K, V]{
		id:     uuid.NewString(),
		parent: m,
		data:   map[K]V{},
		cfg:    m.cfg,
	}
	m.children = append(m.children, child)
	child.notify(OpAttach, nil)
	return child
}

// Sibling creates an empty map sharing m's parent and appends it to that
// parent's children. Returns ErrSiblingOfRoot when m has no parent.
func (m *Map[K, V]) Sibling() (*Map[K, V], error) {
	if m.parent == nil {
		return nil, ErrSiblingOfRoot
	}
	return m.parent.Child(), nil
}

// Parent returns m's immediate parent, or nil when m is a root.
func (m *Map[K, V]) Parent() *Map[K, V] {
	return m.parent
}

// Root walks the parent links to the topmost ancestor. Returns m itself when
// m is already a root. O(depth).
func (m *Map[K, V]) Root() *Map[K, V] {
	node := m
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// NewDetachedRoot returns a brand-new root seeded with a copy of m's local
// data only, not the merged family view. The result keeps no link to m but
// carries a copy of the family configuration.
func (m *Map[K, V]) NewDetachedRoot() *Map[K, V] {
	cfg := *m.cfg
	return &Map[K, V]{
		id:   uuid.NewString(),
		data: maps.Clone(m.data),
		cfg:  &cfg,
	}
}

// Children returns a copy of the direct child references. Mutating the
// returned slice does not affect the tree; the nodes themselves are live.
func (m *Map[K, V]) Children() []*Map[K, V] {
	return slices.Clone(m.children)
}

// IsRoot reports whether m has no parent.
func (m *Map[K, V]) IsRoot() bool {
	return m.parent == nil
}

// IsLeaf reports whether m has no children.
func (m *Map[K, V]) IsLeaf() bool {
	return len(m.children) == 0
}

// ChildCount returns the number of direct children.
func (m *Map[K, V]) ChildCount() int {
	return len(m.children)
}

// Generation returns the number of parent hops between m and its root. A
// root is generation 0. O(depth).
func (m *Map[K, V]) Generation() int {
	generation := 0
	for node := m; node.parent != nil; node = node.parent {
		generation++
	}
	return generation
}

// Clear removes every entry from m's local data. It does not traverse the
// family; clearing a non-leaf node can break the root-superset contract for
// descendants, see the type documentation.
func (m *Map[K, V]) Clear() {
	clear(m.data)
}

// ContainsKey reports whether key exists in m's local data.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.data[key]
	return ok
}

// ContainsValue reports whether value is stored under any key in m's local
// data. Values are compared with reflect.DeepEqual.
func (m *Map[K, V]) ContainsValue(value V) bool {
	for _, stored := range m.data {
		if reflect.DeepEqual(stored, value) {
			return true
		}
	}
	return false
}

// Get returns the value stored locally under key. It never consults the
// family; use Inherit to pull ancestor values down.
func (m *Map[K, V]) Get(key K) (V, bool) {
	value, ok := m.data[key]
	return value, ok
}

// IsEmpty reports whether m's local data has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return len(m.data) == 0
}

// Len returns the number of local entries.
func (m *Map[K, V]) Len() int {
	return len(m.data)
}

// Keys returns the local keys in unspecified order.
func (m *Map[K, V]) Keys() []K {
	return slices.Collect(maps.Keys(m.data))
}

// Values returns the local values in unspecified order.
func (m *Map[K, V]) Values() []V {
	return slices.Collect(maps.Values(m.data))
}

// Entries returns a lazy iterator over m's current local entries. The
// iterator reflects mutations made between pulls; it is finite and covers
// local data only.
func (m *Map[K, V]) Entries() iter.Seq2[K, V] {
	return maps.All(m.data)
}

// String renders m's local data only. Keys are ordered deterministically by
// fmt's map formatting.
func (m *Map[K, V]) String() string {
	return fmt.Sprintf("%v", m.data)
}

// Equal reports whether m and other hold equal local data, ignoring tree
// position. Values are compared with reflect.DeepEqual.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if other == nil {
		return false
	}
	return maps.EqualFunc(m.data, other.data, func(a, b V) bool {
		return reflect.DeepEqual(a, b)
	})
}

// EqualInFamily is the stricter comparison: m and other must share the same
// parent node and hold equal local data.
func (m *Map[K, V]) EqualInFamily(other *Map[K, V]) bool {
	if other == nil {
		return false
	}
	return m.parent == other.parent && m.Equal(other)
}

// Put writes the entry into m's local data and every ancestor up to the
// root.
//
// The returned value is the ROOT's previous value under key, not m's own:
// the cascade returns the parent's result, which bottoms out at the root.
// This contract is kept from the original design; callers that need the
// locally overwritten value must call Get before Put.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	prev, ok := m.putUp(key, value)
	m.notify(OpPut, key)
	return prev, ok
}

func (m *Map[K, V]) putUp(key K, value V) (V, bool) {
	if m.parent == nil {
		prev, ok := m.data[key]
		m.data[key] = value
		return prev, ok
	}
	m.data[key] = value
	return m.parent.putUp(key, value)
}

// PutAll merges every entry into m's local data and cascades the same set
// into every ancestor up to the root. Existing keys are overwritten.
func (m *Map[K, V]) PutAll(entries map[K]V) {
	if len(entries) == 0 {
		return
	}
	m.putAllUp(entries)
	m.notify(OpPutAll, nil)
}

func (m *Map[K, V]) putAllUp(entries map[K]V) {
	maps.Copy(m.data, entries)
	if m.parent != nil {
		m.parent.putAllUp(entries)
	}
}

// Remove deletes key from every descendant's local data first, depth-first,
// then from m's own. It never touches ancestors. Returns the value that was
// stored locally in m.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	prev, ok := m.removeDown(key)
	m.notify(OpRemove, key)
	return prev, ok
}

func (m *Map[K, V]) removeDown(key K) (V, bool) {
	for _, child := range m.children {
		child.removeDown(key)
	}
	prev, ok := m.data[key]
	delete(m.data, key)
	return prev, ok
}

// Inherit pulls the root's value under key down into m. On a root it behaves
// exactly like Get. Otherwise the request recurses through every ancestor to
// the root without consulting their local data, and the root's value is
// materialised into each node on the path, m included, overwriting any
// intermediate shadow. When the root does not hold the key nothing is
// mutated, even if an intermediate ancestor holds it locally.
func (m *Map[K, V]) Inherit(key K) (V, bool) {
	value, ok := m.inheritUp(key)
	if ok {
		m.notify(OpInherit, key)
	}
	return value, ok
}

func (m *Map[K, V]) inheritUp(key K) (V, bool) {
	if m.parent == nil {
		value, ok := m.data[key]
		return value, ok
	}
	value, ok := m.parent.inheritUp(key)
	if ok {
		m.data[key] = value
	}
	return value, ok
}

// Detach removes m from its parent's children and clears the parent link,
// turning m into the root of its own family; m's children stay attached to
// m. Returns the former parent, or ErrDetachRoot when m is already a root.
func (m *Map[K, V]) Detach() (*Map[K, V], error) {
	if m.parent == nil {
		return nil, ErrDetachRoot
	}
	former := m.parent
	former.children = slices.DeleteFunc(former.children, func(node *Map[K, V]) bool {
		return node == m
	})
	m.parent = nil
	m.notify(OpDetach, nil)
	return former, nil
}

// ContainsKeyInFamily reports whether key exists anywhere in the family. It
// consults only the root's local data, relying on the root-superset contract
// maintained by Put, PutAll and Inherit.
func (m *Map[K, V]) ContainsKeyInFamily(key K) bool {
	return m.Root().ContainsKey(key)
}

// ContainsValueInFamily reports whether value is stored anywhere in the
// family, with the same root-only shortcut as ContainsKeyInFamily.
func (m *Map[K, V]) ContainsValueInFamily(value V) bool {
	return m.Root().ContainsValue(value)
}

// lineage returns the path of nodes from the root down to m, inclusive.
func (m *Map[K, V]) lineage() []*Map[K, V] {
	var path []*Map[K, V]
	for node := m; node != nil; node = node.parent {
		path = append(path, node)
	}
	slices.Reverse(path)
	return path
}

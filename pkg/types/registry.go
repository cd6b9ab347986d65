package types

import "fmt"

// VariantEntry lists the child types a single variant of a registered
// type carries. A product type has exactly one VariantEntry; a sum type
// has one per alternative; an iterable has one VariantEntry describing
// its element type.
type VariantEntry struct {
	Children []TypeId
}

// TypeEntry is the registry's record for a single TypeId: its display
// name (for collision diagnostics and the typemap CLI dump) and its
// variants.
type TypeEntry struct {
	ID       TypeId
	Name     string
	Variants []VariantEntry
}

// Registry accumulates the type graph that Describe methods build by
// recursive self-registration. It is filled during process startup and
// only read afterwards: generation consults the RecursionTable and
// GenerateTable that Analyze derives from it, while the mutators and the
// CLI still look up entries through it.
type Registry struct {
	types   map[TypeId]*TypeEntry
	order   []TypeId
	onStack map[TypeId]bool
	done    map[TypeId]bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[TypeId]*TypeEntry),
		onStack: make(map[TypeId]bool),
		done:    make(map[TypeId]bool),
	}
}

// Begin opens a registration frame for id. It returns false, without
// opening anything, when id is already fully registered or is an
// ancestor of the current Describe call (a back edge into a type still
// being described) — in both cases the caller should return id as-is
// without building variants again. Begin panics on a name collision: two
// distinct identities that hashed to the same TypeId is a configuration
// bug the registry surfaces immediately rather than continuing to
// operate on a corrupt graph.
func (r *Registry) Begin(id TypeId, name string) bool {
	if existing, ok := r.types[id]; ok && existing.Name != name {
		panic(fmt.Sprintf("types: TypeId collision between %q and %q", existing.Name, name))
	}
	if r.done[id] {
		return false
	}
	if r.onStack[id] {
		return false
	}
	r.onStack[id] = true
	return true
}

// Finish closes the registration frame opened by Begin, recording the
// type's variants and marking it done.
func (r *Registry) Finish(id TypeId, name string, variants []VariantEntry) {
	if _, ok := r.types[id]; !ok {
		r.order = append(r.order, id)
	}
	r.types[id] = &TypeEntry{ID: id, Name: name, Variants: variants}
	delete(r.onStack, id)
	r.done[id] = true
}

// Lookup returns the entry for id, if registered.
func (r *Registry) Lookup(id TypeId) (*TypeEntry, bool) {
	e, ok := r.types[id]
	return e, ok
}

// Types returns every registered entry in registration order, so output
// such as the typemap CLI dump is stable across runs.
func (r *Registry) Types() []*TypeEntry {
	out := make([]*TypeEntry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.types[id])
	}
	return out
}

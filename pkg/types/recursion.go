package types

// RecursionTable maps a type to the set of its variant indices that were
// found to participate in a recursive cycle of the type graph. The
// generator consults it to decide which variants are safe to pick freely
// and which must be rationed against the remaining depth budget.
type RecursionTable map[TypeId]map[int]bool

// IsRecursive reports whether variant of typ was marked recursive.
func (t RecursionTable) IsRecursive(typ TypeId, variant int) bool {
	return t[typ][variant]
}

// HasAny reports whether any type has any variant marked recursive.
// RecurseMutate consults this to skip entirely against a registry with
// no recursive types at all, where regeneration at a depth bias would
// be indistinguishable from plain GenerateReplace.
func (t RecursionTable) HasAny() bool {
	for _, variants := range t {
		if len(variants) > 0 {
			return true
		}
	}
	return false
}

// GenerateChoices partitions a type's variant indices into those that
// recurse and those that bottom out. Generate consults NonRecursive once
// the remaining depth budget reaches zero.
type GenerateChoices struct {
	Recursive    []int
	NonRecursive []int
}

// GenerateTable is the per-type result of Analyze: every registered type
// paired with its partitioned variant choices.
type GenerateTable map[TypeId]GenerateChoices

type edgeKey struct {
	From, To TypeId
}

// Analyze walks the type graph accumulated in r and returns the
// recursion table and generate table the generator needs. It fails with
// ErrKindConfig if any type with variants has no non-recursive variant
// reachable — such a type can never terminate generation once its depth
// budget is exhausted.
func Analyze(r *Registry) (RecursionTable, GenerateTable, error) {
	g := NewGraph[TypeId]()
	labels := make(map[edgeKey][]int)

	for _, id := range r.order {
		entry := r.types[id]
		for vi, variant := range entry.Variants {
			for _, child := range variant.Children {
				g.AddEdge(id, child)
				key := edgeKey{From: id, To: child}
				labels[key] = append(labels[key], vi)
			}
		}
	}

	recursive := RecursionTable{}
	mark := func(typ TypeId, variant int) {
		if recursive[typ] == nil {
			recursive[typ] = make(map[int]bool)
		}
		recursive[typ][variant] = true
	}

	for _, cycle := range g.SimpleCycles() {
		markCycle(r, cycle, labels, mark)
	}

	gt := make(GenerateTable, len(r.order))
	for _, id := range r.order {
		entry := r.types[id]
		var choice GenerateChoices
		for vi := range entry.Variants {
			if recursive[id][vi] {
				choice.Recursive = append(choice.Recursive, vi)
			} else {
				choice.NonRecursive = append(choice.NonRecursive, vi)
			}
		}
		if len(entry.Variants) > 0 && len(choice.NonRecursive) == 0 {
			return nil, nil, newError(ErrKindConfig,
				"type has no non-recursive variant reachable: "+entry.Name, nil)
		}
		gt[id] = choice
	}
	return recursive, gt, nil
}

// markCycle marks exactly one variant recursive for a cycle reported by
// Graph.SimpleCycles. When every node in the cycle is the same type
// (self-recursion, the common case: an Add variant holding two Exprs),
// that type's own variant is marked. Otherwise the cycle passes through
// two or more distinct types; the tie-break picks the edge whose source
// type has the most variants, on the reasoning that the type with more
// alternatives has more non-recursive escape routes to spare.
func markCycle(r *Registry, cycle []TypeId, labels map[edgeKey][]int, mark func(TypeId, int)) {
	type choice struct {
		from    TypeId
		variant int
	}
	var choices []choice
	for i := range cycle {
		from := cycle[i]
		to := cycle[(i+1)%len(cycle)]
		vs := labels[edgeKey{From: from, To: to}]
		if len(vs) == 0 {
			continue
		}
		choices = append(choices, choice{from: from, variant: vs[0]})
	}
	if len(choices) == 0 {
		return
	}

	best := choices[0]
	bestArity := len(r.types[best.from].Variants)
	for _, c := range choices[1:] {
		arity := len(r.types[c.from].Variants)
		if arity > bestArity {
			best = c
			bestArity = arity
		}
	}
	mark(best.from, best.variant)
}

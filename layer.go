package gridscope

import "sort"

// buildLayers produces the forward topological layering of the
// group-compressed graph and expands each layer back to node keys. Groups
// with no unresolved precedents form the next layer; when a cycle leaves no
// zero-in-degree group, the groups at the current minimum in-degree become
// a synthetic layer, which guarantees termination and keeps every node in
// the output. Layers and their members are sorted lexicographically.
func buildLayers(g *Graph, membership map[string]string) [][]string {
	if len(g.Nodes) == 0 {
		return nil
	}

	// Compress: one super-node per group, intra-group edges dropped.
	groupMembers := make(map[string][]string)
	for key, id := range membership {
		groupMembers[id] = append(groupMembers[id], key)
	}
	succs := make(map[string]map[string]bool)
	inDeg := make(map[string]int, len(groupMembers))
	for id := range groupMembers {
		inDeg[id] = 0
	}
	for edge := range g.edges {
		from, to := membership[edge[0]], membership[edge[1]]
		if from == to {
			continue
		}
		if succs[from] == nil {
			succs[from] = make(map[string]bool)
		}
		if !succs[from][to] {
			succs[from][to] = true
			inDeg[to]++
		}
	}

	remaining := make(map[string]bool, len(groupMembers))
	for id := range groupMembers {
		remaining[id] = true
	}

	var layers [][]string
	for len(remaining) > 0 {
		var ready []string
		for id := range remaining {
			if inDeg[id] == 0 {
				ready = append(ready, id)
			}
		}
		if len(ready) == 0 {
			// Cycle: take the groups with the fewest unresolved
			// precedents together as one synthetic layer.
			min := -1
			for id := range remaining {
				if min == -1 || inDeg[id] < min {
					min = inDeg[id]
				}
			}
			for id := range remaining {
				if inDeg[id] == min {
					ready = append(ready, id)
				}
			}
		}
		sort.Strings(ready)
		var layer []string
		for _, id := range ready {
			layer = append(layer, groupMembers[id]...)
			delete(remaining, id)
		}
		for _, id := range ready {
			for to := range succs[id] {
				if remaining[to] {
					inDeg[to]--
				}
			}
		}
		sort.Strings(layer)
		layers = append(layers, layer)
	}
	return layers
}

// mergeDisplayLayers applies the cosmetic layer-count control on top of the
// true layering: two adjacent layers fuse when both are dominated by
// linear-shift formulas sharing at least one signature, or once the running
// display count has reached the ceiling and the incoming layer is
// linear-shift dominated. The true layering is left untouched; only the
// frame rendering consumes the merged form.
func mergeDisplayLayers(layers [][]string, g *Graph, ceiling int) [][]string {
	if len(layers) == 0 {
		return nil
	}
	merged := [][]string{append([]string(nil), layers[0]...)}
	for _, layer := range layers[1:] {
		last := merged[len(merged)-1]
		dominated := linearShiftDominated(layer, g)
		fuse := dominated && linearShiftDominated(last, g) && shareSignature(last, layer, g)
		if !fuse && dominated && len(merged) >= ceiling {
			fuse = true
		}
		if fuse {
			last = append(last, layer...)
			sort.Strings(last)
			merged[len(merged)-1] = last
			continue
		}
		merged = append(merged, append([]string(nil), layer...))
	}
	return merged
}

// linearShiftDominated reports whether more than half of a layer's nodes
// are single-adjacent-reference formulas.
func linearShiftDominated(layer []string, g *Graph) bool {
	count := 0
	for _, key := range layer {
		if n := g.Nodes[key]; n != nil && n.Adjacent != nil {
			count++
		}
	}
	return count*2 > len(layer)
}

// shareSignature reports whether the two layers have a formula signature in
// common.
func shareSignature(a, b []string, g *Graph) bool {
	sigs := make(map[string]bool)
	for _, key := range a {
		if n := g.Nodes[key]; n != nil && n.Signature != "" {
			sigs[n.Signature] = true
		}
	}
	for _, key := range b {
		if n := g.Nodes[key]; n != nil && sigs[n.Signature] {
			return true
		}
	}
	return false
}

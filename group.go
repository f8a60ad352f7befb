package gridscope

import "sort"

// Group is an equivalence class of nodes judged to be the same replicated
// formula. ID is the lexicographically smallest member key.
type Group struct {
	ID      string
	Members []string
}

// unionFind is a disjoint-set structure over integer-indexed nodes with
// path compression and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// nodeDepths carries the two longest-path measures the merge test compares:
// output depth (longest path forward to a node with no dependents) and
// input depth (longest path back to a node with no precedents).
type nodeDepths struct {
	out []int
	in  []int
}

// computeDepths runs a memoized depth-first traversal per direction. Nodes
// currently on the stack contribute zero, which keeps the traversal
// terminating and consistent on cyclic graphs.
func computeDepths(g *Graph, keys []string, index map[string]int) nodeDepths {
	d := nodeDepths{out: make([]int, len(keys)), in: make([]int, len(keys))}
	longest(keys, index, g.Dependents, d.out)
	longest(keys, index, g.Precedents, d.in)
	return d
}

func longest(keys []string, index map[string]int, next map[string][]string, depth []int) {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make([]byte, len(keys))
	var walk func(i int) int
	walk = func(i int) int {
		switch state[i] {
		case onStack:
			return 0
		case done:
			return depth[i]
		}
		state[i] = onStack
		best := 0
		for _, succ := range next[keys[i]] {
			j, ok := index[succ]
			if !ok {
				continue
			}
			if d := walk(j) + 1; d > best {
				best = d
			}
		}
		state[i] = done
		depth[i] = best
		return best
	}
	for i := range keys {
		walk(i)
	}
}

// groupNodes partitions the graph into replication groups: formula nodes
// with identical signatures are merged across 8-directional adjacency when
// no edge connects them and the depth-consistency test passes. Value nodes
// stay singletons. The returned membership maps every node key to its
// group id.
func groupNodes(g *Graph) ([]Group, map[string]string) {
	keys := g.sortedKeys()
	index := make(map[string]int, len(keys))
	for i, key := range keys {
		index[key] = i
	}
	depths := computeDepths(g, keys, index)
	uf := newUnionFind(len(keys))

	// Class member lists, kept so a candidate merge can be vetoed when any
	// cross pair is edge-connected. Grouping two cells one of which feeds
	// the other would collapse a computation chain into one visual unit.
	members := make(map[int][]int, len(keys))
	for i := range keys {
		members[i] = []int{i}
	}

	buckets := make(map[string][]int)
	for i, key := range keys {
		if sig := g.Nodes[key].Signature; sig != "" {
			buckets[sig] = append(buckets[sig], i)
		}
	}

	sigs := make([]string, 0, len(buckets))
	for sig := range buckets {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	for _, sig := range sigs {
		bucket := buckets[sig]
		if len(bucket) < 2 {
			continue
		}
		type cellPos struct {
			sheet    string
			row, col int
		}
		at := make(map[cellPos]int, len(bucket))
		for _, i := range bucket {
			n := g.Nodes[keys[i]]
			at[cellPos{n.Sheet, n.Row, n.Col}] = i
		}
		// Breadth-first sweep over the bucket: each member probes its
		// eight neighbours and unions when all gates pass. Union-find
		// makes visiting order irrelevant to the final partition.
		for _, i := range bucket {
			n := g.Nodes[keys[i]]
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					j, ok := at[cellPos{n.Sheet, n.Row + dr, n.Col + dc}]
					if !ok {
						continue
					}
					if !mergeAllowed(g, keys, depths, i, j) {
						continue
					}
					ri, rj := uf.find(i), uf.find(j)
					if ri == rj {
						continue
					}
					if crossEdge(g, keys, members[ri], members[rj]) {
						continue
					}
					uf.union(ri, rj)
					root := uf.find(ri)
					merged := append(members[ri], members[rj]...)
					delete(members, ri)
					delete(members, rj)
					members[root] = merged
				}
			}
		}
	}

	membership := make(map[string]string, len(keys))
	classes := make(map[int][]string)
	for i, key := range keys {
		root := uf.find(i)
		classes[root] = append(classes[root], key)
	}
	groups := make([]Group, 0, len(classes))
	for _, cls := range classes {
		sort.Strings(cls)
		id := cls[0]
		for _, key := range cls {
			membership[key] = id
		}
		groups = append(groups, Group{ID: id, Members: cls})
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].ID < groups[b].ID })
	return groups, membership
}

// mergeAllowed applies the pairwise gates: no direct edge in either
// direction, and depth consistency. Depths must match exactly, or both
// candidates are linear-shift formulas (same signature is implied by the
// bucket), or input depths match and one of the pair is a terminal node.
// The last two relaxations admit copy-pasted row/column formulas whose
// position in a chain skews one of the depths.
func mergeAllowed(g *Graph, keys []string, d nodeDepths, i, j int) bool {
	a, b := keys[i], keys[j]
	if g.hasEdge(a, b) || g.hasEdge(b, a) {
		return false
	}
	if d.out[i] == d.out[j] && d.in[i] == d.in[j] {
		return true
	}
	if g.Nodes[a].Adjacent != nil && g.Nodes[b].Adjacent != nil {
		return true
	}
	if d.in[i] == d.in[j] && (len(g.Dependents[a]) == 0 || len(g.Dependents[b]) == 0) {
		return true
	}
	return false
}

// crossEdge reports whether any member of one class is edge-connected to
// any member of the other, in either direction.
func crossEdge(g *Graph, keys []string, as, bs []int) bool {
	for _, a := range as {
		for _, b := range bs {
			if g.hasEdge(keys[a], keys[b]) || g.hasEdge(keys[b], keys[a]) {
				return true
			}
		}
	}
	return false
}

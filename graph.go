package gridscope

import "sort"

// Offset is a row/column displacement between two grid positions.
type Offset struct {
	Rows int
	Cols int
}

// Node is one vertex of the dependency graph: a single cell address on a
// single sheet plus the metadata later passes need.
type Node struct {
	Key     string
	Sheet   string
	Row     int
	Col     int
	// Formula is the formula text without the leading "=", empty for value
	// cells retained only because a formula references them.
	Formula string
	// Refs are the offsets of the formula's references relative to this
	// cell, in scan order.
	Refs []Offset
	// Signature is the position-invariant fingerprint, empty for value
	// cells.
	Signature string
	// Adjacent is set when the formula's only reference sits at Manhattan
	// distance 1, the linear-shift case.
	Adjacent *Offset
}

// Graph is the bidirectional formula reference graph over one grid
// snapshot. Adjacency lists are sorted for deterministic iteration.
type Graph struct {
	Nodes map[string]*Node
	// Precedents maps a dependent to the cells its formula reads.
	Precedents map[string][]string
	// Dependents maps a precedent to the formulas reading it.
	Dependents map[string][]string
	// DateCells marks the non-formula date-formatted cells found during
	// the build pass. They are tracked apart from the formula graph and
	// feed the date-pattern detector and the label indexer.
	DateCells map[string]bool

	edges map[[2]string]bool
}

// PrecedentsOf returns a sorted copy of the precedent list for a node key.
func (g *Graph) PrecedentsOf(key string) []string {
	return append([]string(nil), g.Precedents[key]...)
}

// DependentsOf returns a sorted copy of the dependent list for a node key.
func (g *Graph) DependentsOf(key string) []string {
	return append([]string(nil), g.Dependents[key]...)
}

// hasEdge reports whether a directed edge exists.
func (g *Graph) hasEdge(from, to string) bool {
	return g.edges[[2]string{from, to}]
}

// sortedKeys returns all node keys in lexicographic order.
func (g *Graph) sortedKeys() []string {
	keys := make([]string, 0, len(g.Nodes))
	for key := range g.Nodes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// buildGraph makes a single pass over the grid: formula cells become nodes
// with one precedent edge per resolved reference, non-formula cells are
// classified as date-formatted or skipped. The final node set keeps formula
// cells plus referenced cells with non-empty content, which drops blank
// cells accidentally spanned by a range reference.
func buildGraph(grid *Grid) *Graph {
	g := &Graph{
		Nodes:      make(map[string]*Node),
		Precedents: make(map[string][]string),
		Dependents: make(map[string][]string),
		DateCells:  make(map[string]bool),
		edges:      make(map[[2]string]bool),
	}

	type pending struct {
		node *Node
		refs []CellReference
	}
	var formulas []pending

	sheets := make([]string, 0, len(grid.Sheets))
	for sheet := range grid.Sheets {
		sheets = append(sheets, sheet)
	}
	sort.Strings(sheets)

	for _, sheet := range sheets {
		for ri, cells := range grid.Sheets[sheet] {
			for ci := range cells {
				cell := &cells[ci]
				row, col := ri+1, ci+1
				if !cell.isFormula() {
					if isDateCell(cell) {
						g.DateCells[nodeKey(sheet, col, row)] = true
					}
					continue
				}
				formula := cell.formulaBody()
				sig, adjacent := buildSignature(formula, row, col)
				node := &Node{
					Key:       nodeKey(sheet, col, row),
					Sheet:     sheet,
					Row:       row,
					Col:       col,
					Formula:   formula,
					Signature: sig,
					Adjacent:  adjacent,
				}
				var refs []CellReference
				for ref := range References(formula) {
					refs = append(refs, ref)
					node.Refs = append(node.Refs, Offset{Rows: ref.Row - row, Cols: ref.Col - col})
				}
				g.Nodes[node.Key] = node
				formulas = append(formulas, pending{node: node, refs: refs})
			}
		}
	}

	// Resolve references against the snapshot. A referenced cell joins the
	// node set only when it is itself a formula or carries content.
	for _, p := range formulas {
		for _, ref := range p.refs {
			sheet := ref.Sheet
			if sheet == "" {
				sheet = grid.Primary
			}
			key := nodeKey(sheet, ref.Col, ref.Row)
			if key == p.node.Key {
				continue
			}
			if _, ok := g.Nodes[key]; !ok {
				cell := grid.cell(sheet, ref.Row, ref.Col)
				if cell.isEmpty() || cell.isFormula() {
					// Formula cells outside the collected set do not
					// exist; empty spanned cells are pruned.
					continue
				}
				g.Nodes[key] = &Node{Key: key, Sheet: sheet, Row: ref.Row, Col: ref.Col}
			}
			g.addEdge(key, p.node.Key)
		}
	}

	for key := range g.Precedents {
		sort.Strings(g.Precedents[key])
	}
	for key := range g.Dependents {
		sort.Strings(g.Dependents[key])
	}
	return g
}

// addEdge records a precedent→dependent edge once.
func (g *Graph) addEdge(from, to string) {
	e := [2]string{from, to}
	if g.edges[e] {
		return
	}
	g.edges[e] = true
	g.Precedents[to] = append(g.Precedents[to], from)
	g.Dependents[from] = append(g.Dependents[from], to)
}

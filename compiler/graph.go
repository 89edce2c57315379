package compiler

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// reachable returns the names of the exported functions and of every function
// they call, directly or indirectly. Calls to functions outside of functions
// are external symbols and do not appear in the graph.
func reachable(functions []*Function) map[string]bool {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(functions))
	for i, fn := range functions {
		ids[fn.name] = int64(i)
		g.AddNode(simple.Node(i))
	}

	for i, fn := range functions {
		for _, callee := range fn.callees {
			id, ok := ids[callee]
			if !ok || id == int64(i) {
				// External symbol or recursion.
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(id)))
		}
	}

	live := map[string]bool{}
	walker := traverse.DepthFirst{
		Visit: func(n graph.Node) {
			live[functions[n.ID()].name] = true
		},
	}
	for i, fn := range functions {
		if fn.exported {
			walker.Walk(g, simple.Node(i), nil)
		}
	}
	return live
}

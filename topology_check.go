package booksim

// topology_check.go validates a built relative-Dragonfly wiring against
// the topology's structural invariants, the same way the teacher's
// routes.go turns a device connection list into a gonum graph and asks
// gonum's Dijkstra implementation questions about it rather than
// hand-rolling shortest-path bookkeeping.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// channelGraph turns a built channel list into an undirected weighted
// graph of routers, one edge per direction collapsed onto a single
// undirected edge (mirroring how routes.go folds MrNesbits'
// point-to-point links into a graph.Graph for path.DijkstraFrom).
func channelGraph(numRouters int, channels []channelSpec) graph.Graph {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	nodes := make(map[int]simple.Node, numRouters)
	for id := 0; id < numRouters; id++ {
		nodes[id] = simple.Node(id)
		g.AddNode(nodes[id])
	}
	for _, c := range channels {
		g.SetWeightedEdge(simple.WeightedEdge{F: nodes[c.from.router], T: nodes[c.to.router], W: 1.0})
	}
	return g
}

// CheckIntraGroupMesh verifies every pair of routers within the same
// group is connected by exactly one direct channel in each direction
// (spec.md §8 property 6): a full mesh has a routers, each with a-1
// peers, so the group must contribute a*(a-1) directed intra-group
// channel endpoints.
func CheckIntraGroupMesh(tp *TopologyParams, channels []channelSpec) error {
	counts := make(map[[2]int]int)
	for _, c := range channels {
		if tp.GroupOf(c.from.router) != tp.GroupOf(c.to.router) {
			continue
		}
		counts[[2]int{c.from.router, c.to.router}]++
	}

	for grp := 0; grp < tp.G; grp++ {
		base := grp * tp.A
		for i := 0; i < tp.A; i++ {
			for j := 0; j < tp.A; j++ {
				if i == j {
					continue
				}
				n := counts[[2]int{base + i, base + j}]
				if n != 1 {
					return fmt.Errorf("intra-group channel %d->%d wired %d times, want 1", base+i, base+j, n)
				}
			}
		}
	}
	return nil
}

// CheckInterGroupSymmetry verifies that whenever router r has a global
// link into group h, some router in group h has a global link back
// into r's group, and the total count of links between any two groups
// is symmetric (spec.md §8 property 7).
func CheckInterGroupSymmetry(tp *TopologyParams, channels []channelSpec) error {
	linkCount := make(map[[2]int]int)
	for _, c := range channels {
		fromGrp := tp.GroupOf(c.from.router)
		toGrp := tp.GroupOf(c.to.router)
		if fromGrp == toGrp {
			continue
		}
		linkCount[[2]int{fromGrp, toGrp}]++
	}
	for pair, n := range linkCount {
		back := linkCount[[2]int{pair[1], pair[0]}]
		if back != n {
			return fmt.Errorf("group %d->%d has %d global links but %d->%d has %d",
				pair[0], pair[1], n, pair[1], pair[0], back)
		}
	}
	return nil
}

// CheckMinimalHopBound verifies HopCount never exceeds 3 router-to-router
// hops for any pair of terminals, and that the graph distance between
// the terminals' routers (as computed independently by gonum's Dijkstra)
// never exceeds what HopCount reports, so the two ways of measuring
// distance agree (spec.md §8 property 8).
func CheckMinimalHopBound(tp *TopologyParams, channels []channelSpec) error {
	g := channelGraph(tp.NumRouters, channels)
	trees := make(map[int]path.Shortest, tp.NumRouters)

	sample := func(routerID int) path.Shortest {
		tree, ok := trees[routerID]
		if !ok {
			tree = path.DijkstraFrom(simple.Node(routerID), g)
			trees[routerID] = tree
		}
		return tree
	}

	for src := 0; src < tp.N; src += tp.P {
		for dest := 0; dest < tp.N; dest += tp.P {
			hc := HopCount(tp, src, dest)
			if hc > 3 {
				return fmt.Errorf("HopCount(%d,%d) = %d exceeds the 3-hop minimal bound", src, dest, hc)
			}

			srcRouter := tp.TerminalRouter(src)
			destRouter := tp.TerminalRouter(dest)
			tree := sample(srcRouter)
			_, weight := tree.To(int64(destRouter))
			if weight > float64(hc) {
				return fmt.Errorf("graph distance %d->%d is %v, exceeds reported HopCount %d",
					srcRouter, destRouter, weight, hc)
			}
		}
	}
	return nil
}

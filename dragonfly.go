package booksim

import "fmt"

// TopologyParams holds the immutable, process-wide relative-Dragonfly
// sizing derived from "k" and "n". spec.md §9 calls out gPP/gAA/gGG/
// gK/gN as free-standing globals in the original source because its
// routing functions are free-standing C functions; here they are
// instead threaded explicitly through a RoutingContext (routing.go)
// built from one of these, so nothing in this package needs mutable
// package state to route a flit.
type TopologyParams struct {
	P int // gPP: processors (terminals) per router
	A int // gAA: routers per group (== 2p, n==1 only)
	G int // gGG: number of groups
	K int // router radix
	N int // terminal count

	NumRouters int

	IntraGroupLatency int
	InterGroupLatency int
}

// NewTopologyParams computes the relative-Dragonfly sizing from a
// Configuration, per spec.md §3/§4.3. n must be 1; this is the only
// dimensionality BookSim's relative-Dragonfly network supports, and
// the spec asserts it rather than generalizing it.
func NewTopologyParams(config *Configuration) *TopologyParams {
	p := config.GetInt("k", 0)
	n := config.GetInt("n", 1)
	if n != 1 {
		Error(nil, "DragonFlyRelative requires n == 1")
	}
	if p <= 0 {
		Error(nil, "DragonFlyRelative requires k > 0")
	}

	a := 2 * p
	g := a*p + 1
	nodes := a * p * g
	k := 4*p - 1

	return &TopologyParams{
		P:                 p,
		A:                 a,
		G:                 g,
		K:                 k,
		N:                 nodes,
		NumRouters:        nodes / p,
		IntraGroupLatency: config.GetInt("intra_group_latency", 10),
		InterGroupLatency: config.GetInt("inter_group_latency", 100),
	}
}

// Q is k - p, the number of non-terminal (intra + inter group)
// channels per router; used pervasively in the index arithmetic below.
func (tp *TopologyParams) Q() int { return tp.K - tp.P }

// Capacity reports the router's channel bandwidth in bytes/cycle,
// supplementing the original's network-base-class capacity report
// (see SPEC_FULL.md §9.1) even though payload bytes are otherwise out
// of scope: it's a topology descriptor, one bit-width assumption (k
// bits/cycle per channel) away from K itself.
func (tp *TopologyParams) Capacity() float64 { return float64(tp.K) / 8.0 }

// intraGroupPorts is the count of intra-group output ports per router (2p-1).
func (tp *TopologyParams) intraGroupPorts() int { return 2*tp.P - 1 }

// globalPortBase is the first local output-port index used by global
// (inter-group) links, i.e. p terminal-ejection ports come first,
// conceptually, but the port numbering used by dragonflyRelativePort
// is relative to the non-terminal channel array (see §4.3): terminal
// ports occupy [0,p), intra-group ports occupy [p, p+2p-2], and global
// ports occupy [p+2p-1, p+3p-2].
func (tp *TopologyParams) globalPortBase() int { return tp.P + tp.A - 1 }

// GroupOf returns which group router id belongs to.
func (tp *TopologyParams) GroupOf(routerID int) int { return routerID / tp.A }

// RouterIndexInGroup returns a router's in-group index.
func (tp *TopologyParams) RouterIndexInGroup(routerID int) int { return routerID % tp.A }

// TerminalRouter returns the router id hosting terminal t.
func (tp *TopologyParams) TerminalRouter(t int) int { return t / tp.P }

// TerminalGroup returns the group hosting terminal t.
func (tp *TopologyParams) TerminalGroup(t int) int { return t / (tp.A * tp.P) }

// dragonflyRelativePort computes the output channel (relative to
// router rID's channel array) to forward a flit destined for terminal
// dest, per spec.md §4.4. Undefined if rID already hosts dest.
func dragonflyRelativePort(tp *TopologyParams, rID, dest int) int {
	myGroup := tp.GroupOf(rID)
	destGroup := tp.TerminalGroup(dest)

	dist := ((destGroup + tp.G) - myGroup) % tp.G

	var targetRouter int
	if destGroup == myGroup {
		targetRouter = (dest % (tp.A * tp.P)) / tp.P
	} else {
		targetRouter = (dist - 1) / tp.P
	}
	if targetRouter < 0 {
		Error(nil, "dragonflyRelativePort computed a negative target router")
	}

	// case 1: dest is a terminal attached directly to rID.
	if tp.TerminalRouter(dest) == rID {
		return dest % tp.P
	}

	myRouter := tp.RouterIndexInGroup(rID)

	// case 2: rID holds the global link toward dest's group.
	if myRouter == targetRouter && destGroup != myGroup {
		return tp.P + (tp.A - 1) + ((dist - 1) % tp.P)
	}

	// case 3: one more intra-group hop is needed to reach targetRouter.
	if myRouter < targetRouter {
		return tp.P + targetRouter - 1
	}
	return tp.P + targetRouter
}

// HopCount reports the number of router-to-router hops a minimally
// routed flit from src to dest would take, supplementing spec.md's
// testable property 8 with the original source's
// dragonflyrelative_hopcnt companion function (see SPEC_FULL.md §9.1).
func HopCount(tp *TopologyParams, src, dest int) int {
	srcGroup := tp.TerminalGroup(src)
	destGroup := tp.TerminalGroup(dest)

	if srcGroup == destGroup {
		if tp.TerminalRouter(src) == tp.TerminalRouter(dest) {
			return 0
		}
		return 1
	}

	// relative wiring: the global link between the two groups leaves
	// srcGroup from in-group router (dist-1)/p and lands in destGroup at
	// in-group router (backDist-1)/p, as BuildDragonFlyRelative wires it.
	dist := (destGroup + tp.G - srcGroup) % tp.G
	backDist := (srcGroup + tp.G - destGroup) % tp.G

	srcIntmRouter := srcGroup*tp.A + (dist-1)/tp.P
	destIntmRouter := destGroup*tp.A + (backDist-1)/tp.P

	srcHop := 0
	if srcIntmRouter != tp.TerminalRouter(src) {
		srcHop = 1
	}
	destHop := 0
	if destIntmRouter != tp.TerminalRouter(dest) {
		destHop = 1
	}

	return srcHop + 1 + destHop
}

// channelEndpoint identifies one end of a wired channel: which
// router, and which local port on that router.
type channelEndpoint struct {
	router int
	port   int
}

// channelSpec fully describes one directed channel of the built
// network: its two endpoints and its latency.
type channelSpec struct {
	from, to channelEndpoint
	latency  int
	terminal bool // true for injection/ejection channels (no latency semantics tested here)
}

// BuildDragonFlyRelative constructs the full set of channels wiring
// tp.NumRouters routers together per spec.md §4.3: terminal
// injection/ejection, a full mesh of intra-group links, and relative
// inter-group ("global") links whose target group is computed purely
// from each router's own in-group index (no per-group routing table).
func BuildDragonFlyRelative(tp *TopologyParams) []channelSpec {
	var channels []channelSpec
	q := tp.Q()

	for node := 0; node < tp.NumRouters; node++ {
		grpID := node / tp.A
		dimID := node % tp.A

		// intra-group full mesh: local output ports [0, 2p-2] at this
		// router pair up with a matching input port on the far router.
		for c := 0; c < tp.intraGroupPorts(); c++ {
			var input int
			if c < dimID {
				input = grpID*q*tp.A - (dimID-c)*q + dimID*q + (dimID - 1)
			} else {
				input = grpID*q*tp.A + dimID*q + (c-dimID+1)*q + dimID
			}
			if input < 0 {
				Error(nil, fmt.Sprintf("intra-group input index negative for router %d port %d", node, c))
			}
			farRouter := input / q
			farPort := tp.P + (input % q)
			channels = append(channels, channelSpec{
				from:    channelEndpoint{router: node, port: tp.P + c},
				to:      channelEndpoint{router: farRouter, port: farPort},
				latency: tp.IntraGroupLatency,
			})
		}

		// inter-group ("global") links: relative wiring. Router node's
		// cnt-th global port reaches the group at forward distance
		// dimID*p + cnt + 1 from its own group.
		for cnt := 0; cnt < tp.P; cnt++ {
			toGroup := (grpID + dimID*tp.P + cnt + 1) % tp.G
			toPort := ((grpID + tp.G - toGroup) % tp.G) - 1
			routerOffset := toPort / tp.P
			portOffset := toPort % tp.P

			channels = append(channels, channelSpec{
				from: channelEndpoint{router: node, port: tp.P + tp.intraGroupPorts() + cnt},
				to: channelEndpoint{
					router: toGroup*tp.A + routerOffset,
					port:   tp.P + tp.intraGroupPorts() + portOffset,
				},
				latency: tp.InterGroupLatency,
			})
		}
	}

	return channels
}

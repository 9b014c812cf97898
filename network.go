package booksim

import "fmt"

// Network assembles a TopologyParams, the dfRouters it describes, and
// the channel wiring BuildDragonFlyRelative produced into something a
// driver can step a flit through, per spec.md §6's Router/OutputSet/
// Flit/Credit contracts.
type Network struct {
	Topo     *TopologyParams
	Routers  []*dfRouter
	Channels []channelSpec

	// linkTo[router][port] is the channel leaving that router/port,
	// precomputed from Channels for O(1) lookup during routing.
	linkTo map[int]map[int]channelSpec

	Ctx     *RoutingContext
	RouteFn RoutingFunction

	Trace *TraceManager
}

// NewNetwork builds a relative-Dragonfly network from a Configuration,
// wiring num_vcs-wide BufferStates at every router and selecting the
// routing function named by the "routing_function" key.
func NewNetwork(config *Configuration, rng randSource, trace *TraceManager) *Network {
	tp := NewTopologyParams(config)
	channels := BuildDragonFlyRelative(tp)

	numVCs := config.GetInt("num_vcs", 1)
	numPorts := tp.K

	net := &Network{
		Topo:     tp,
		Channels: channels,
		linkTo:   make(map[int]map[int]channelSpec),
		Trace:    trace,
	}

	net.Routers = make([]*dfRouter, tp.NumRouters)
	for i := 0; i < tp.NumRouters; i++ {
		net.Routers[i] = newDFRouter(config, nil, i, numPorts)
	}

	for _, c := range channels {
		if net.linkTo[c.from.router] == nil {
			net.linkTo[c.from.router] = make(map[int]channelSpec)
		}
		net.linkTo[c.from.router][c.from.port] = c
	}

	routeName := config.GetStr("routing_function", "min_dragonflyrelative")
	fn := LookupRoutingFunction(routeName)
	if fn == nil {
		Error(nil, fmt.Sprintf("unknown routing function %q", routeName))
	}
	net.RouteFn = fn
	net.Ctx = &RoutingContext{Topo: tp, NumVCs: numVCs, RNG: rng, Trace: trace}

	return net
}

// Link returns the channel wired to router/port, and whether one exists.
func (n *Network) Link(router, port int) (channelSpec, bool) {
	ports, ok := n.linkTo[router]
	if !ok {
		return channelSpec{}, false
	}
	c, ok := ports[port]
	return c, ok
}

// Route runs the network's configured routing function for flit f
// currently at router rID, arriving on inChannel (or < 0 at
// injection), filling outputs with the admissible (port, vc) choices.
func (n *Network) Route(rID int, f *Flit, inChannel int, outputs *OutputSet, inject bool) {
	r := n.Routers[rID]
	n.RouteFn(n.Ctx, r, f, inChannel, outputs, inject)
}

// CanSend reports whether router rID's mirror of the downstream
// buffer reachable through outPort has room for another flit on vc.
func (n *Network) CanSend(rID, outPort, vc int) bool {
	if outPort < 0 || outPort >= n.Routers[rID].numPorts {
		return false
	}
	bs := n.Routers[rID].OutputBuffer(outPort)
	return !bs.IsFullFor(vc)
}

// Deliver advances flit f from router rID along the chosen output
// port: it accounts for the flit against that port's downstream
// buffer mirror (allocating the VC on the first flit of a packet),
// steps the flit to the far router, and returns the far router id and
// the input port it arrives on there. For a terminal-ejection port
// (no wired channel leaves it) it returns (-1, -1) to signal the flit
// has left the network; the caller is responsible for eventually
// returning a Credit via ProcessCredit once the flit is consumed.
func (n *Network) Deliver(rID, outPort int, f *Flit) (farRouter, farPort int) {
	bs := n.Routers[rID].OutputBuffer(outPort)
	if bs.IsAvailableFor(f.VC) {
		bs.TakeBuffer(f.VC)
	}
	bs.SendingFlit(f)

	TraceFlit(n.Trace, globalSimClock(), f, rID, "depart")

	c, ok := n.Link(rID, outPort)
	if !ok {
		return -1, -1
	}
	return c.to.router, c.to.port
}

// ReturnCredit processes a credit for vc returning to rID's mirror of
// the downstream buffer behind outPort, freeing the slot it names.
func (n *Network) ReturnCredit(rID, outPort, vc int) {
	if outPort < 0 || outPort >= n.Routers[rID].numPorts {
		return
	}
	c := NewCredit()
	c.AddVC(vc)
	n.Routers[rID].OutputBuffer(outPort).ProcessCredit(c)
}

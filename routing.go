package booksim

// RoutingContext bundles everything a routing function needs that
// would otherwise be free-standing globals (gPP/gAA/gGG/gNumVCs) in
// the original source, per spec.md §9's "re-architect as an immutable
// topology-parameters value passed explicitly" design note.
type RoutingContext struct {
	Topo   *TopologyParams
	NumVCs int
	RNG    randSource

	// Trace receives a watch-gated record of each routing decision,
	// replacing the original dragonflyrelative_port's interactive,
	// getchar()-blocking debug branch (see SPEC_FULL.md §9.1): routing
	// functions call TraceFlit themselves rather than threading a
	// watch bool through dragonflyRelativePort, since the decision a
	// flit's watch flag should surface is "which port/VC did routing
	// pick", not anything dragonflyRelativePort's pure port arithmetic
	// needs to know about.
	Trace *TraceManager
}

// RoutingFunction is the shape every entry in the routing-function
// registry has: given the router a flit is currently at, the flit
// itself, the channel it arrived on (or < 0 at injection), and
// whether this is an injection call, report the admissible
// (port, vc) choices into outputs.
type RoutingFunction func(ctx *RoutingContext, r Router, f *Flit, inChannel int, outputs *OutputSet, inject bool)

// routingFunctions is the name->closure registry spec.md §9 asks for
// in place of BookSim's gRoutingFunctionMap of raw function pointers.
var routingFunctions = map[string]RoutingFunction{
	"min_dragonflyrelative":  MinDragonFlyRelative,
	"ugal_dragonflyrelative": UgalDragonFlyRelative,
}

// LookupRoutingFunction returns the named routing function, or nil if unknown.
func LookupRoutingFunction(name string) RoutingFunction {
	return routingFunctions[name]
}

// MinDragonFlyRelative is the shortest-path deterministic router: two
// VCs for deadlock freedom across the global dateline, per spec.md §4.5.
func MinDragonFlyRelative(ctx *RoutingContext, r Router, f *Flit, inChannel int, outputs *OutputSet, inject bool) {
	outputs.Clear()

	if inject {
		vc := randIntn(ctx.RNG, ctx.NumVCs)
		outputs.AddRange(-1, vc, vc)
		return
	}

	tp := ctx.Topo
	rID := r.GetID()
	myGroup := tp.GroupOf(rID)
	destGroup := tp.TerminalGroup(f.Dest)

	if inChannel < tp.P {
		f.Ph = 0
		if destGroup == myGroup {
			f.Ph = 1
		}
	}

	outPort := dragonflyRelativePort(tp, rID, f.Dest)

	if outPort >= tp.globalPortBase() {
		f.Ph = 1
	}

	outVC := f.Ph
	outputs.AddRange(outPort, outVC, outVC)
	TraceFlit(ctx.Trace, globalSimClock(), f, rID, "route")
}

// adaptiveThreshold biases UGAL's routing decision toward minimal
// routing; a negative value would bias it the other way.
const adaptiveThreshold = 30

// UgalDragonFlyRelative is BookSim's Universal Globally-Adaptive
// Load-balanced router, per spec.md §4.6. Requires exactly 3 VCs.
func UgalDragonFlyRelative(ctx *RoutingContext, r Router, f *Flit, inChannel int, outputs *OutputSet, inject bool) {
	if ctx.NumVCs != 3 {
		Error(nil, "ugal_dragonflyrelative requires exactly 3 VCs")
	}
	outputs.Clear()

	if inject {
		vc := randIntn(ctx.RNG, ctx.NumVCs)
		outputs.AddRange(-1, vc, vc)
		return
	}

	tp := ctx.Topo
	rID := r.GetID()
	myGroup := tp.GroupOf(rID)
	destGroup := tp.TerminalGroup(f.Dest)

	if inChannel < tp.P {
		if destGroup == myGroup {
			f.Ph = 2
		} else {
			f.Intm = randIntn(ctx.RNG, tp.N)
			intmGroup := tp.TerminalGroup(f.Intm)

			if intmGroup == myGroup {
				f.Ph = 1
			} else {
				minOutPort := dragonflyRelativePort(tp, rID, f.Dest)
				minQ := r.GetUsedCredit(minOutPort)
				if minQ < 0 {
					minQ = 0
				}

				nonminOutPort := dragonflyRelativePort(tp, rID, f.Intm)
				nonminQ := r.GetUsedCredit(nonminOutPort)
				if nonminQ < 0 {
					nonminQ = 0
				}

				if minQ <= 2*nonminQ+adaptiveThreshold {
					f.Ph = 1
				} else {
					f.Ph = 0
				}
			}
		}
	}

	// transition from non-minimal phase to minimal once the
	// intermediate router is reached.
	if f.Ph == 0 && rID == tp.TerminalRouter(f.Intm) {
		f.Ph = 1
	}

	var outPort int
	switch f.Ph {
	case 0:
		outPort = dragonflyRelativePort(tp, rID, f.Intm)
	case 1, 2:
		outPort = dragonflyRelativePort(tp, rID, f.Dest)
	default:
		Error(nil, "ugal_dragonflyrelative: flit phase out of range")
	}

	// dateline: crossing a global link while minimally routed advances
	// to the post-dateline phase.
	if f.Ph == 1 && outPort >= tp.globalPortBase() {
		f.Ph = 2
	}

	outVC := f.Ph
	outputs.AddRange(outPort, outVC, outVC)
	TraceFlit(ctx.Trace, globalSimClock(), f, rID, "route")
}

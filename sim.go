package booksim

// sim.go is the demo cycle-stepping driver cmd/dfsim uses to exercise
// a built Network end to end. It intentionally does not attempt full
// per-flit input queuing or exact multi-cycle credit round trips; the
// BufferState/BufferPolicy and routing contracts it drives are what's
// under test elsewhere (spec.md §1 scopes the driver out of the core).

const creditRoundTripFactor = 2

// arrival is a packet that has finished traversing one hop and is
// ready to be routed at routerID, having entered on inPort, once the
// simulation clock reaches cycle.
type arrival struct {
	cycle    int64
	routerID int
	inPort   int
	flits    []*Flit
}

// Stats summarizes one Simulation.Run.
type Stats struct {
	Injected  int
	Delivered int
	Dropped   int
	totalHops int
}

// AverageHops returns the mean minimal router-to-router hop count
// (HopCount from source to destination) of delivered packets, or 0 if
// none were delivered; hops taken on a non-minimal route are not counted.
func (s *Stats) AverageHops() float64 {
	if s.Delivered == 0 {
		return 0
	}
	return float64(s.totalHops) / float64(s.Delivered)
}

// Simulation drives synthetic traffic through a Network for a fixed
// number of cycles.
type Simulation struct {
	Net     *Network
	Sources []*TrafficSource

	clock   *tickClock
	pending map[int64][]arrival
}

// NewSimulation builds a Simulation over net, installing a tickClock
// as the package's sim_time source (clock.go) so BufferState's
// Feedback/SimpleFeedback policies see a real, advancing clock.
func NewSimulation(net *Network, sources []*TrafficSource) *Simulation {
	return &Simulation{
		Net:     net,
		Sources: sources,
		clock:   newTickClock(),
		pending: make(map[int64][]arrival),
	}
}

func (s *Simulation) scheduleArrival(cycle int64, routerID, inPort int, flits []*Flit) {
	s.pending[cycle] = append(s.pending[cycle], arrival{cycle: cycle, routerID: routerID, inPort: inPort, flits: flits})
}

// Run advances the simulation cycles cycles, injecting traffic each
// cycle from every source and routing whatever packets have arrived
// at a router that cycle, returning delivery statistics.
func (s *Simulation) Run(cycles int) *Stats {
	stats := &Stats{}
	tp := s.Net.Topo

	for cycle := 0; cycle < cycles; cycle++ {
		now := int64(cycle)

		for _, arr := range s.pending[now] {
			if arr.routerID == -1 {
				s.Net.ReturnCredit(arr.flits[0].Src, arr.inPort, arr.flits[0].VC)
				continue
			}
			s.route(arr, stats)
		}
		delete(s.pending, now)

		for _, src := range s.Sources {
			flits := src.Poll(float64(cycle), tp.N)
			if flits == nil {
				continue
			}
			stats.Injected++

			outputs := NewOutputSet()
			s.Net.Route(tp.TerminalRouter(src.Terminal), flits[0], -1, outputs, true)
			ranges := outputs.Ranges()
			if len(ranges) == 0 {
				continue
			}
			vc := ranges[0].VCLo
			for _, f := range flits {
				f.VC = vc
			}

			homeRouter := tp.TerminalRouter(src.Terminal)
			localPort := src.Terminal % tp.P
			s.scheduleArrival(now+1, homeRouter, localPort, flits)
		}

		s.clock.Advance()
	}

	return stats
}

// route makes one hop's routing decision for an arrived packet and
// either delivers it toward the next router or, on backpressure,
// counts it dropped rather than queuing (see the file comment). Flits
// of a dropped packet that were already sent stay accounted downstream
// until their credits return.
func (s *Simulation) route(arr arrival, stats *Stats) {
	head := arr.flits[0]
	outputs := NewOutputSet()
	s.Net.Route(arr.routerID, head, arr.inPort, outputs, false)

	ranges := outputs.Ranges()
	if len(ranges) == 0 {
		stats.Dropped++
		return
	}
	choice := ranges[0]

	latency := s.linkLatency(arr.routerID, choice.Port)
	now := arr.cycle

	// the downstream buffer mirror counts flits, so each flit is checked
	// for room and returns its own credit.
	var farRouter, farPort int
	for _, f := range arr.flits {
		if !s.Net.CanSend(arr.routerID, choice.Port, choice.VCLo) {
			stats.Dropped++
			return
		}
		f.VC = choice.VCLo
		f.Ph = head.Ph
		f.Intm = head.Intm
		farRouter, farPort = s.Net.Deliver(arr.routerID, choice.Port, f)
		s.scheduleCreditReturn(now+int64(latency)*creditRoundTripFactor, arr.routerID, choice.Port, choice.VCLo)
	}

	if farRouter < 0 {
		stats.Delivered++
		stats.totalHops += HopCount(s.Net.Topo, head.Src, head.Dest)
		return
	}

	s.scheduleArrival(now+int64(latency), farRouter, farPort, arr.flits)
}

func (s *Simulation) linkLatency(routerID, port int) int {
	if c, ok := s.Net.Link(routerID, port); ok {
		return c.latency
	}
	return 1
}

// scheduleCreditReturn defers ReturnCredit to a future cycle by
// stashing an arrival with routerID -1 as a credit-return sentinel;
// kept in the same pending map as flit arrivals so Run only has one
// queue to drain.
func (s *Simulation) scheduleCreditReturn(cycle int64, routerID, port, vc int) {
	s.pending[cycle] = append(s.pending[cycle], arrival{
		cycle:    cycle,
		routerID: -1,
		inPort:   port,
		flits:    []*Flit{{VC: vc, Src: routerID}},
	})
}

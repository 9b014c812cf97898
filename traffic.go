package booksim

import "math"

// TrafficPattern draws a destination terminal for a flit injected at
// src, matching BookSim's pluggable traffic-pattern abstraction;
// UniformRandomTraffic below is the one synthetic pattern provided,
// the one the demo driver needs.
type TrafficPattern func(rng randSource, n, src int) int

// UniformRandomTraffic picks a uniformly random destination terminal
// other than src, the default synthetic pattern for exercising a
// topology's routing without favoring any locality.
func UniformRandomTraffic(rng randSource, n, src int) int {
	if n <= 1 {
		return src
	}
	dest := randIntn(rng, n-1)
	if dest >= src {
		dest++
	}
	return dest
}

// interarrivalGenerator draws the gap, in cycles, until the next
// injection at a terminal. exponentialInterarrival mirrors the
// Poisson-process injection BookSim's traffic manager uses to hit a
// target offered load.
type interarrivalGenerator func(rng randSource) float64

// exponentialInterarrival returns a generator drawing from an
// exponential distribution with the given mean, via inverse-CDF
// sampling off the same RandU01 uniform draw rng.go already wraps.
func exponentialInterarrival(mean float64) interarrivalGenerator {
	return func(rng randSource) float64 {
		u := rng.RandU01()
		for u <= 0 {
			u = rng.RandU01()
		}
		return -mean * math.Log(u)
	}
}

// TrafficSource drives synthetic injection at one terminal: it tracks
// the next scheduled injection time and hands out Flits stamped with
// fresh packet and flit ids as cycles advance past it.
type TrafficSource struct {
	Terminal int
	Pattern  TrafficPattern
	gen      interarrivalGenerator
	rng      randSource

	nextInjection float64
	nextPID       int
	nextFID       int
	packetSize    int
	numVCs        int
}

// NewTrafficSource builds a source injecting packetSize-flit packets
// at terminal, with exponentially distributed interarrival times of
// the given mean.
func NewTrafficSource(terminal int, pattern TrafficPattern, rng randSource, mean float64, packetSize, numVCs int) *TrafficSource {
	return &TrafficSource{
		Terminal:   terminal,
		Pattern:    pattern,
		gen:        exponentialInterarrival(mean),
		rng:        rng,
		packetSize: packetSize,
		numVCs:     numVCs,
	}
}

// Poll reports the packet (as a slice of Flits, head to tail) to
// inject if now has reached the source's next scheduled injection
// time, advancing that schedule; otherwise it returns nil.
func (ts *TrafficSource) Poll(now float64, n int) []*Flit {
	if now < ts.nextInjection {
		return nil
	}
	dest := ts.Pattern(ts.rng, n, ts.Terminal)
	pid := ts.nextPID
	ts.nextPID++

	vc := randIntn(ts.rng, ts.numVCs)
	flits := make([]*Flit, ts.packetSize)
	for i := 0; i < ts.packetSize; i++ {
		flits[i] = &Flit{
			ID:   ts.nextFID,
			PID:  pid,
			VC:   vc,
			Tail: i == ts.packetSize-1,
			Src:  ts.Terminal,
			Dest: dest,
		}
		ts.nextFID++
	}

	ts.nextInjection = now + ts.gen(ts.rng)
	return flits
}

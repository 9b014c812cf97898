package booksim

import (
	"math"

	"github.com/iti/evt/vrtime"
)

// sentTimeQueue is a small FIFO of send timestamps, bounded by the
// number of flits outstanding on a VC. A plain slice used as a ring
// via index slicing is enough: BookSim uses a std::queue<int> here,
// and there is no reentrancy to guard against (spec.md §9).
type sentTimeQueue struct {
	times []int64
}

func (q *sentTimeQueue) push(t int64) { q.times = append(q.times, t) }
func (q *sentTimeQueue) empty() bool  { return len(q.times) == 0 }
func (q *sentTimeQueue) front() int64 { return q.times[0] }
func (q *sentTimeQueue) pop()         { q.times = q.times[1:] }

// feedbackPolicy extends sharedPolicy with round-trip-time-based
// per-VC occupancy limits: a VC whose measured RTT exceeds the
// network's observed physical minimum is presumed congested
// downstream and has its share of the buffer shrunk; a VC whose RTT
// tracks the minimum is granted more.
type feedbackPolicy struct {
	sharedPolicy

	vcs              int
	agingScale       int
	offset           int
	occupancyLimit   []int
	roundTripTime    []int
	flitSentTime     []sentTimeQueue
	minRoundTripTime int64
	totalMappedSize  int

	clock func() vrtime.Time
}

func newFeedbackPolicy(config *Configuration, parent *namedModule, name string) *feedbackPolicy {
	p := &feedbackPolicy{sharedPolicy: sharedPolicy{namedModule: newNamedModule(parent, name)}}
	p.initFeedback(config)
	return p
}

// initFeedback performs Feedback-specific construction; SimpleFeedback
// embeds a feedbackPolicy and calls this the same way Limited/Dynamic/
// Shifting call sharedPolicy.init.
func (p *feedbackPolicy) initFeedback(config *Configuration) {
	p.init(config)

	p.agingScale = config.GetInt("feedback_aging_scale", 4)
	p.offset = config.GetInt("feedback_offset", 0)
	p.vcs = config.GetInt("num_vcs", 1)

	p.occupancyLimit = make([]int, p.vcs)
	p.roundTripTime = make([]int, p.vcs)
	p.flitSentTime = make([]sentTimeQueue, p.vcs)
	for v := range p.occupancyLimit {
		p.occupancyLimit[v] = p.bufSize
		p.roundTripTime[v] = -1
	}
	p.totalMappedSize = p.bufSize * p.vcs
	p.minRoundTripTime = math.MaxInt64

	p.clock = func() vrtime.Time { return globalSimClock() }
}

// simTime returns the current simulation time as ticks, via the
// package-level clock hook (see clock.go) that stands in for the
// external driver's sim_time source (spec.md §1, §5).
func (p *feedbackPolicy) simTime() int64 {
	return int64(p.clock().Ticks())
}

func (p *feedbackPolicy) SendingFlit(bs *BufferState, f *Flit) {
	p.sharedPolicy.SendingFlit(bs, f)
	p.flitSentTime[f.VC].push(p.simTime())
}

func (p *feedbackPolicy) FreeSlotFor(bs *BufferState, vc int) {
	p.sharedPolicy.FreeSlotFor(bs, vc)
	if p.flitSentTime[vc].empty() {
		Error(&p.namedModule, "credit for VC with no outstanding probe")
	}
	lastRTT := p.simTime() - p.flitSentTime[vc].front()
	p.flitSentTime[vc].pop()

	if lastRTT < p.minRoundTripTime {
		p.minRoundTripTime = lastRTT
	}

	rtt := p.roundTripTime[vc]
	if rtt < 0 {
		rtt = int(lastRTT)
	} else {
		rtt = ((rtt << p.agingScale) + int(lastRTT) - rtt) >> p.agingScale
	}
	p.roundTripTime[vc] = rtt

	limit := p.occupancyLimit[vc]
	p.totalMappedSize -= limit
	limit = int(p.minRoundTripTime)*2 - rtt + p.offset
	if limit < 1 {
		limit = 1
	}
	p.occupancyLimit[vc] = limit
	p.totalMappedSize += limit
}

func (p *feedbackPolicy) IsFullFor(bs *BufferState, vc int) bool {
	return p.sharedPolicy.IsFullFor(bs, vc) || bs.Occupancy(vc) >= p.occupancyLimit[vc]
}

// simpleFeedbackPolicy runs the Feedback update from only one "probe"
// flit per VC at a time, rather than timestamping every flit: cheaper
// to track, at the cost of a coarser RTT sample.
type simpleFeedbackPolicy struct {
	feedbackPolicy
	pendingCredits []int
}

func newSimpleFeedbackPolicy(config *Configuration, parent *namedModule, name string) *simpleFeedbackPolicy {
	p := &simpleFeedbackPolicy{feedbackPolicy: feedbackPolicy{sharedPolicy: sharedPolicy{namedModule: newNamedModule(parent, name)}}}
	p.initFeedback(config)
	p.pendingCredits = make([]int, p.vcs)
	return p
}

func (p *simpleFeedbackPolicy) SendingFlit(bs *BufferState, f *Flit) {
	vc := f.VC
	if p.flitSentTime[vc].empty() {
		p.pendingCredits[vc] = bs.Occupancy(vc) - 1
		p.feedbackPolicy.SendingFlit(bs, f)
		return
	}
	p.sharedPolicy.SendingFlit(bs, f)
}

func (p *simpleFeedbackPolicy) FreeSlotFor(bs *BufferState, vc int) {
	if !p.flitSentTime[vc].empty() && p.pendingCredits[vc] == 0 {
		p.feedbackPolicy.FreeSlotFor(bs, vc)
		return
	}
	if p.pendingCredits[vc] > 0 {
		if p.flitSentTime[vc].empty() {
			Error(&p.namedModule, "pending non-probe credit with no outstanding probe")
		}
		p.pendingCredits[vc]--
	}
	p.sharedPolicy.FreeSlotFor(bs, vc)
}

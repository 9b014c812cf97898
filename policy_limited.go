package booksim

// limitedPolicy wraps sharedPolicy with a per-VC cap on total slots
// held at once (max_held_slots), independent of the private/shared
// split, tightened further by dynamicLimitedPolicy and
// shiftingDynamicLimitedPolicy below.
type limitedPolicy struct {
	sharedPolicy
	activeVCs     int
	maxHeldSlots  int
	vcs           int
}

func newLimitedPolicy(config *Configuration, parent *namedModule, name string) *limitedPolicy {
	p := &limitedPolicy{sharedPolicy: sharedPolicy{namedModule: newNamedModule(parent, name)}}
	p.init(config)
	p.vcs = config.GetInt("num_vcs", 1)
	p.maxHeldSlots = config.GetInt("max_held_slots", -1)
	if p.maxHeldSlots < 0 {
		p.maxHeldSlots = p.bufSize
	}
	return p
}

func (p *limitedPolicy) TakeBuffer(bs *BufferState, vc int) {
	p.activeVCs++
	if p.activeVCs > p.vcs {
		Error(&p.namedModule, "number of active VCs is too large")
	}
}

func (p *limitedPolicy) SendingFlit(bs *BufferState, f *Flit) {
	p.sharedPolicy.SendingFlit(bs, f)
	if f.Tail {
		p.activeVCs--
		if p.activeVCs < 0 {
			Error(&p.namedModule, "number of active VCs fell below zero")
		}
	}
}

func (p *limitedPolicy) IsFullFor(bs *BufferState, vc int) bool {
	return p.sharedPolicy.IsFullFor(bs, vc) || bs.Occupancy(vc) >= p.maxHeldSlots
}

// dynamicLimitedPolicy recomputes max_held_slots = buf_size/active_vcs
// on every TakeBuffer and tail send, so buffer capacity auto-balances
// across however many VCs are presently in use.
type dynamicLimitedPolicy struct {
	limitedPolicy
}

func newDynamicLimitedPolicy(config *Configuration, parent *namedModule, name string) *dynamicLimitedPolicy {
	p := &dynamicLimitedPolicy{limitedPolicy: limitedPolicy{sharedPolicy: sharedPolicy{namedModule: newNamedModule(parent, name)}}}
	p.init(config)
	p.vcs = config.GetInt("num_vcs", 1)
	p.maxHeldSlots = p.bufSize
	return p
}

func (p *dynamicLimitedPolicy) TakeBuffer(bs *BufferState, vc int) {
	p.limitedPolicy.TakeBuffer(bs, vc)
	if p.activeVCs <= 0 {
		Error(&p.namedModule, "active VC count must be positive after TakeBuffer")
	}
	p.maxHeldSlots = p.bufSize / p.activeVCs
	if p.maxHeldSlots <= 0 {
		Error(&p.namedModule, "max_held_slots must be positive")
	}
}

func (p *dynamicLimitedPolicy) SendingFlit(bs *BufferState, f *Flit) {
	p.limitedPolicy.SendingFlit(bs, f)
	if f.Tail && p.activeVCs > 0 {
		p.maxHeldSlots = p.bufSize / p.activeVCs
	}
	if p.maxHeldSlots <= 0 {
		Error(&p.namedModule, "max_held_slots must be positive")
	}
}

// shiftingDynamicLimitedPolicy recomputes max_held_slots by halving
// buf_size once per power-of-two growth in active_vcs, rather than by
// exact proportional division.
type shiftingDynamicLimitedPolicy struct {
	dynamicLimitedPolicy
}

func newShiftingDynamicLimitedPolicy(config *Configuration, parent *namedModule, name string) *shiftingDynamicLimitedPolicy {
	p := &shiftingDynamicLimitedPolicy{dynamicLimitedPolicy: dynamicLimitedPolicy{limitedPolicy: limitedPolicy{sharedPolicy: sharedPolicy{namedModule: newNamedModule(parent, name)}}}}
	p.init(config)
	p.vcs = config.GetInt("num_vcs", 1)
	p.maxHeldSlots = p.bufSize
	return p
}

func shiftedMaxHeldSlots(bufSize, activeVCs int) int {
	i := activeVCs - 1
	slots := bufSize
	for i > 0 {
		slots >>= 1
		i >>= 1
	}
	return slots
}

func (p *shiftingDynamicLimitedPolicy) TakeBuffer(bs *BufferState, vc int) {
	p.limitedPolicy.TakeBuffer(bs, vc)
	if p.activeVCs <= 0 {
		Error(&p.namedModule, "active VC count must be positive after TakeBuffer")
	}
	p.maxHeldSlots = shiftedMaxHeldSlots(p.bufSize, p.activeVCs)
	if p.maxHeldSlots <= 0 {
		Error(&p.namedModule, "max_held_slots must be positive")
	}
}

func (p *shiftingDynamicLimitedPolicy) SendingFlit(bs *BufferState, f *Flit) {
	p.limitedPolicy.SendingFlit(bs, f)
	if f.Tail && p.activeVCs > 0 {
		p.maxHeldSlots = shiftedMaxHeldSlots(p.bufSize, p.activeVCs)
	}
	if p.maxHeldSlots <= 0 {
		Error(&p.namedModule, "max_held_slots must be positive")
	}
}

package booksim

import "fmt"

// BufferState tracks the mirror image of the next router's input
// buffers for one outgoing link: how full each VC's downstream slot
// pool is, whether a VC is currently allocated to a packet, and
// whether that packet's tail flit has already gone out. It owns the
// BufferPolicy that actually decides admission/capacity.
type BufferState struct {
	namedModule

	vcs  int
	size int

	occupancy   int
	vcOccupancy []int

	inUse    []bool
	tailSent []bool

	waitForTailCredit bool

	lastID  []int
	lastPID []int

	policy BufferPolicy
}

// NewBufferState constructs a BufferState from a Configuration, per
// the "num_vcs"/"buf_size"/"vc_buf_size"/"wait_for_tail_credit"/
// "buffer_policy" keys documented in spec.md §6.
func NewBufferState(config *Configuration, parent *namedModule, name string) *BufferState {
	bs := &BufferState{namedModule: newNamedModule(parent, name)}

	bs.vcs = config.GetInt("num_vcs", 1)
	bs.size = config.GetInt("buf_size", -1)
	if bs.size <= 0 {
		bs.size = bs.vcs * config.GetInt("vc_buf_size", 1)
	}

	bs.waitForTailCredit = config.GetBool("wait_for_tail_credit", false)

	bs.vcOccupancy = make([]int, bs.vcs)
	bs.inUse = make([]bool, bs.vcs)
	bs.tailSent = make([]bool, bs.vcs)
	bs.lastID = make([]int, bs.vcs)
	bs.lastPID = make([]int, bs.vcs)
	for v := range bs.lastID {
		bs.lastID[v] = -1
		bs.lastPID[v] = -1
	}

	bs.policy = NewBufferPolicy(config, &bs.namedModule, "policy")

	return bs
}

// VCs reports the number of virtual channels this link's downstream
// buffer is divided into.
func (bs *BufferState) VCs() int { return bs.vcs }

// Size reports the total downstream buffer capacity, in flits.
func (bs *BufferState) Size() int { return bs.size }

// Occupancy returns the number of flits currently outstanding to the
// downstream buffer on the given VC.
func (bs *BufferState) Occupancy(vc int) int { return bs.vcOccupancy[vc] }

// TotalOccupancy returns the total flits outstanding across all VCs.
func (bs *BufferState) TotalOccupancy() int { return bs.occupancy }

// IsFullFor reports whether vc's downstream slot is, per the buffer
// policy, unable to accept another flit right now.
func (bs *BufferState) IsFullFor(vc int) bool { return bs.policy.IsFullFor(bs, vc) }

// IsAvailableFor reports whether vc is not currently allocated to a packet.
func (bs *BufferState) IsAvailableFor(vc int) bool { return !bs.inUse[vc] }

// IsEmptyFor reports whether vc has nothing outstanding downstream.
func (bs *BufferState) IsEmptyFor(vc int) bool { return bs.vcOccupancy[vc] == 0 }

// HasCreditFor reports whether vc currently has room for another flit.
func (bs *BufferState) HasCreditFor(vc int) bool { return !bs.IsFullFor(vc) }

// TakeBuffer marks vc as allocated to a new packet. Called by a VC
// allocator before the first SendingFlit of that packet.
func (bs *BufferState) TakeBuffer(vc int) {
	if bs.inUse[vc] {
		Error(&bs.namedModule, fmt.Sprintf("buffer taken while in use for VC %d", vc))
	}
	bs.inUse[vc] = true
	bs.tailSent[vc] = false
	bs.policy.TakeBuffer(bs, vc)
}

// SendingFlit is called when the owning link transmits f toward the
// downstream router.
func (bs *BufferState) SendingFlit(f *Flit) {
	vc := f.VC

	bs.occupancy++
	if bs.occupancy > bs.size {
		Error(&bs.namedModule, "buffer overflow")
	}
	bs.vcOccupancy[vc]++

	bs.policy.SendingFlit(bs, f)

	if f.Tail {
		bs.tailSent[vc] = true
		if !bs.waitForTailCredit {
			if !bs.inUse[vc] {
				Error(&bs.namedModule, fmt.Sprintf("tail sent for idle VC %d", vc))
			}
			bs.inUse[vc] = false
		}
	}
	bs.lastID[vc] = f.ID
	bs.lastPID[vc] = f.PID
}

// ProcessCredit consumes a credit message returning from downstream,
// freeing one slot per VC it names.
func (bs *BufferState) ProcessCredit(c *Credit) {
	for vc := range c.VCs {
		if vc < 0 || vc >= bs.vcs {
			Error(&bs.namedModule, fmt.Sprintf("credit for out-of-range VC %d", vc))
		}
		if bs.waitForTailCredit && !bs.inUse[vc] {
			Error(&bs.namedModule, fmt.Sprintf("received credit for idle VC %d", vc))
		}

		bs.occupancy--
		if bs.occupancy < 0 {
			Error(&bs.namedModule, "buffer occupancy fell below zero")
		}
		bs.vcOccupancy[vc]--
		if bs.vcOccupancy[vc] < 0 {
			Error(&bs.namedModule, fmt.Sprintf("buffer occupancy fell below zero for VC %d", vc))
		}

		if bs.waitForTailCredit && bs.vcOccupancy[vc] == 0 && bs.tailSent[vc] {
			if !bs.inUse[vc] {
				Error(&bs.namedModule, fmt.Sprintf("tail credit for VC %d not in use", vc))
			}
			bs.inUse[vc] = false
		}

		bs.policy.FreeSlotFor(bs, vc)
	}
}

// String renders per-VC occupancy/in-use/tail-sent state, the same
// diagnostic BufferState::Display produces in the original source.
func (bs *BufferState) String() string {
	s := fmt.Sprintf("%s: occupied = %d\n", bs.FullName(), bs.occupancy)
	for v := 0; v < bs.vcs; v++ {
		s += fmt.Sprintf("  VC %d: in_use = %v, tail_sent = %v, occupied = %d\n",
			v, bs.inUse[v], bs.tailSent[v], bs.vcOccupancy[v])
	}
	return s
}

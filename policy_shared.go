package booksim

import "fmt"

// sharedPolicy pools buffer capacity: each VC is assigned to one of a
// handful of private "buckets", and whatever capacity remains beyond
// the buckets' private sizes forms a shared pool any VC may overflow
// into. A reservation mechanism preserves tail-credit semantics: a
// slot about to be vacated by a VC's last outstanding flit is held for
// that VC rather than counted as newly free shared capacity.
type sharedPolicy struct {
	namedModule

	bufSize       int
	sharedSize    int
	sharedOccup   int
	privateSize   []int
	privateOccup  []int
	vcBucket      []int // per-VC -> bucket index
	reservedSlots []int
}

func newSharedPolicy(config *Configuration, parent *namedModule, name string) *sharedPolicy {
	p := &sharedPolicy{namedModule: newNamedModule(parent, name)}
	p.init(config)
	return p
}

// init performs the Shared-specific construction so Limited/Dynamic/
// Shifting/Feedback variants can embed a sharedPolicy and call this
// directly instead of re-deriving the bucket/reservation bookkeeping.
func (p *sharedPolicy) init(config *Configuration) {
	vcs := config.GetInt("num_vcs", 1)

	numPrivateBufs := config.GetInt("private_bufs", -1)
	if numPrivateBufs < 0 {
		numPrivateBufs = vcs
	} else if numPrivateBufs == 0 {
		numPrivateBufs = 1
	}
	p.privateOccup = make([]int, numPrivateBufs)

	p.bufSize = config.GetInt("buf_size", -1)
	if p.bufSize < 0 {
		p.bufSize = vcs * config.GetInt("vc_buf_size", 1)
	}

	p.privateSize = config.GetIntArray("private_buf_size")
	if len(p.privateSize) == 0 {
		bs := config.GetInt("private_buf_size", -1)
		if bs < 0 {
			p.privateSize = []int{p.bufSize / numPrivateBufs}
		} else {
			p.privateSize = []int{bs}
		}
	}
	last := p.privateSize[len(p.privateSize)-1]
	for len(p.privateSize) < numPrivateBufs {
		p.privateSize = append(p.privateSize, last)
	}

	startVC := config.GetIntArray("private_buf_start_vc")
	if len(startVC) == 0 {
		sv := config.GetInt("private_buf_start_vc", -1)
		if sv < 0 {
			startVC = make([]int, numPrivateBufs)
			for i := 0; i < numPrivateBufs; i++ {
				startVC[i] = i * vcs / numPrivateBufs
			}
		} else {
			startVC = []int{sv}
		}
	}

	endVC := config.GetIntArray("private_buf_end_vc")
	if len(endVC) == 0 {
		ev := config.GetInt("private_buf_end_vc", -1)
		if ev < 0 {
			endVC = make([]int, numPrivateBufs)
			for i := 0; i < numPrivateBufs; i++ {
				endVC[i] = (i+1)*vcs/numPrivateBufs - 1
			}
		} else {
			endVC = []int{ev}
		}
	}

	p.vcBucket = make([]int, vcs)
	for i := range p.vcBucket {
		p.vcBucket[i] = -1
	}
	p.sharedSize = p.bufSize
	for i := 0; i < numPrivateBufs; i++ {
		p.sharedSize -= p.privateSize[i]
		if startVC[i] > endVC[i] {
			Error(&p.namedModule, "private buffer start_vc exceeds end_vc")
		}
		for v := startVC[i]; v <= endVC[i]; v++ {
			if p.vcBucket[v] >= 0 {
				Error(&p.namedModule, fmt.Sprintf("VC %d mapped to more than one private buffer", v))
			}
			p.vcBucket[v] = i
		}
	}
	if p.sharedSize < 0 {
		Error(&p.namedModule, "private buffer sizes exceed total buf_size")
	}

	p.reservedSlots = make([]int, vcs)
}

// processFreeSlot is the unconditional "really free this slot" path,
// called directly on a credit and also drained from reservedSlots once
// a VC's tail flit has gone out.
func (p *sharedPolicy) processFreeSlot(vc int) {
	i := p.vcBucket[vc]
	p.privateOccup[i]--
	if p.privateOccup[i] < 0 {
		Error(&p.namedModule, fmt.Sprintf("private buffer occupancy fell below zero for buffer %d", i))
	} else if p.privateOccup[i] >= p.privateSize[i] {
		p.sharedOccup--
		if p.sharedOccup < 0 {
			Error(&p.namedModule, "shared buffer occupancy fell below zero")
		}
	}
}

func (p *sharedPolicy) TakeBuffer(bs *BufferState, vc int) {}

func (p *sharedPolicy) SendingFlit(bs *BufferState, f *Flit) {
	vc := f.VC
	if p.reservedSlots[vc] > 0 {
		p.reservedSlots[vc]--
	} else {
		i := p.vcBucket[vc]
		p.privateOccup[i]++
		if p.privateOccup[i] > p.privateSize[i] {
			p.sharedOccup++
			if p.sharedOccup > p.sharedSize {
				Error(&p.namedModule, "shared buffer overflow")
			}
		}
	}
	if f.Tail {
		for p.reservedSlots[vc] > 0 {
			p.reservedSlots[vc]--
			p.processFreeSlot(vc)
		}
	}
}

func (p *sharedPolicy) FreeSlotFor(bs *BufferState, vc int) {
	if !bs.IsAvailableFor(vc) && bs.IsEmptyFor(vc) {
		p.reservedSlots[vc]++
	} else {
		p.processFreeSlot(vc)
	}
}

func (p *sharedPolicy) IsFullFor(bs *BufferState, vc int) bool {
	i := p.vcBucket[vc]
	return p.reservedSlots[vc] == 0 &&
		p.privateOccup[i] >= p.privateSize[i] &&
		p.sharedOccup >= p.sharedSize
}

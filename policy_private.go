package booksim

import "fmt"

// privatePolicy gives every VC an equal, fixed private allocation with
// no sharing across VCs: the simplest of the seven variants.
type privatePolicy struct {
	namedModule
	vcBufSize int
}

func newPrivatePolicy(config *Configuration, parent *namedModule, name string) *privatePolicy {
	p := &privatePolicy{namedModule: newNamedModule(parent, name)}

	vcs := config.GetInt("num_vcs", 1)
	bufSize := config.GetInt("buf_size", -1)
	if bufSize <= 0 {
		p.vcBufSize = config.GetInt("vc_buf_size", 1)
	} else {
		p.vcBufSize = bufSize / vcs
	}
	if p.vcBufSize <= 0 {
		Error(&p.namedModule, "computed vc_buf_size must be positive")
	}
	return p
}

func (p *privatePolicy) TakeBuffer(bs *BufferState, vc int) {}

func (p *privatePolicy) SendingFlit(bs *BufferState, f *Flit) {
	if bs.Occupancy(f.VC) > p.vcBufSize {
		Error(&p.namedModule, fmt.Sprintf("buffer overflow for VC %d", f.VC))
	}
}

func (p *privatePolicy) FreeSlotFor(bs *BufferState, vc int) {}

func (p *privatePolicy) IsFullFor(bs *BufferState, vc int) bool {
	return bs.Occupancy(vc) >= p.vcBufSize
}

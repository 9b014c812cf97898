package booksim

// Flit is the flow-control digit the core consumes. Most fields are
// set once by whatever assembles the packet and are read-only from
// the core's point of view; ph and intm are written by the routing
// functions as the flit progresses hop to hop.
type Flit struct {
	ID    int  // flit identifier
	PID   int  // packet identifier this flit belongs to
	VC    int  // the virtual channel the flit currently occupies
	Tail  bool // true for the last flit of a packet
	Src   int  // source terminal
	Dest  int  // destination terminal
	Class int  // traffic class
	Watch bool // debug flag: trace this flit's routing/buffer decisions

	Ph   int // phase tag, written by routing functions (min: 0/1, ugal: 0/1/2)
	Intm int // intermediate terminal chosen for UGAL's non-minimal path
}

// Credit carries the set of VC indices whose downstream buffers each
// freed one slot. BookSim represents this as a set; a Go map[int]struct{}
// gives the same "unordered, unique" semantics without needing an
// ordered container.
type Credit struct {
	VCs map[int]struct{}
}

// NewCredit builds an empty Credit.
func NewCredit() *Credit {
	return &Credit{VCs: make(map[int]struct{})}
}

// AddVC records that one flit left the downstream buffer for vc.
func (c *Credit) AddVC(vc int) {
	c.VCs[vc] = struct{}{}
}

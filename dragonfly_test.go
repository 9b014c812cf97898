package booksim

import "testing"

func p2Config() *Configuration {
	c := NewConfiguration()
	c.Set("k", 2)
	c.Set("n", 1)
	return c
}

// TestTopologySizing covers S1: p=2 must yield a=4, g=9, N=72
// terminals, 36 routers, each of radix 7.
func TestTopologySizing(t *testing.T) {
	tp := NewTopologyParams(p2Config())

	if tp.A != 4 {
		t.Errorf("A = %d, want 4", tp.A)
	}
	if tp.G != 9 {
		t.Errorf("G = %d, want 9", tp.G)
	}
	if tp.N != 72 {
		t.Errorf("N = %d, want 72", tp.N)
	}
	if tp.NumRouters != 36 {
		t.Errorf("NumRouters = %d, want 36", tp.NumRouters)
	}
	if tp.K != 7 {
		t.Errorf("K = %d, want 7", tp.K)
	}
}

func TestNewTopologyParamsRejectsNonUnityN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected NewTopologyParams to panic for n != 1")
		}
	}()
	c := p2Config()
	c.Set("n", 2)
	NewTopologyParams(c)
}

func TestDragonflyRelativePortSameGroup(t *testing.T) {
	tp := NewTopologyParams(p2Config())

	// S5: src=0, dest=5 share group 0; one intra-group hop lands on
	// the router terminal 5 is attached to, then a terminal port.
	port := dragonflyRelativePort(tp, 0, 5)
	if port != 3 {
		t.Fatalf("dragonflyRelativePort(0,5) = %d, want 3 (intra-group hop)", port)
	}

	farRouter := 2 // router index in group 0 holding terminal 5
	finalPort := dragonflyRelativePort(tp, farRouter, 5)
	if finalPort != 5%tp.P {
		t.Fatalf("dragonflyRelativePort(%d,5) = %d, want terminal port %d", farRouter, finalPort, 5%tp.P)
	}
}

func TestDragonflyRelativePortDistantGroup(t *testing.T) {
	tp := NewTopologyParams(p2Config())

	// S6: src=0, dest=40 (group 5); expect an intra-group hop toward
	// the router holding the global link, then that link itself.
	port := dragonflyRelativePort(tp, 0, 40)
	if port != 3 {
		t.Fatalf("dragonflyRelativePort(0,40) = %d, want 3", port)
	}

	globalPort := dragonflyRelativePort(tp, 2, 40)
	if globalPort != tp.globalPortBase() {
		t.Fatalf("dragonflyRelativePort(2,40) = %d, want global port %d", globalPort, tp.globalPortBase())
	}
}

func TestHopCountWithinBound(t *testing.T) {
	tp := NewTopologyParams(p2Config())

	// router 0 -> router 2 (holds the link to group 5) -> router 21
	// (where that link lands) -> router 20 (hosts terminal 40).
	hc := HopCount(tp, 0, 40)
	if hc != 3 {
		t.Fatalf("HopCount(0,40) = %d, want 3", hc)
	}
	if hc > 3 {
		t.Fatalf("HopCount(0,40) = %d exceeds the 3-hop minimal bound", hc)
	}

	if got := HopCount(tp, 0, 1); got != 0 {
		t.Errorf("HopCount for terminals on the same router = %d, want 0", got)
	}
	if got := HopCount(tp, 0, 5); got != 1 {
		t.Errorf("HopCount within a group across routers = %d, want 1", got)
	}
}

func TestCapacityMatchesRadixOverEight(t *testing.T) {
	tp := NewTopologyParams(p2Config())

	want := float64(tp.K) / 8.0
	if got := tp.Capacity(); got != want {
		t.Fatalf("Capacity() = %v, want %v (k=%d)", got, want, tp.K)
	}
}

func TestBuildDragonFlyRelativeChannelCounts(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	channels := BuildDragonFlyRelative(tp)

	wantPerRouter := tp.intraGroupPorts() + tp.P
	if got := len(channels) / tp.NumRouters; got != wantPerRouter {
		t.Fatalf("channels per router = %d, want %d", got, wantPerRouter)
	}
	if len(channels)%tp.NumRouters != 0 {
		t.Fatalf("channel count %d not evenly divided across %d routers", len(channels), tp.NumRouters)
	}
}

package booksim

import "testing"

type constRNG struct{ u float64 }

func (r constRNG) RandU01() float64 { return r.u }

func demoConfig() *Configuration {
	c := NewConfiguration()
	c.Set("k", 2)
	c.Set("n", 1)
	c.Set("num_vcs", 3)
	c.Set("buffer_policy", "shared")
	c.Set("routing_function", "ugal_dragonflyrelative")
	c.Set("buf_size", 32)
	return c
}

func TestNewNetworkBuildsExpectedTopology(t *testing.T) {
	net := NewNetwork(demoConfig(), constRNG{u: 0.25}, CreateTraceManager("t", false))

	if len(net.Routers) != net.Topo.NumRouters {
		t.Fatalf("len(Routers) = %d, want %d", len(net.Routers), net.Topo.NumRouters)
	}
	if len(net.Channels) == 0 {
		t.Fatal("no channels built")
	}
	if net.RouteFn == nil {
		t.Fatal("routing function not resolved")
	}
}

func TestNetworkDeliverEjectsAtDestinationRouter(t *testing.T) {
	net := NewNetwork(demoConfig(), constRNG{u: 0.25}, CreateTraceManager("t", false))

	f := &Flit{ID: 0, VC: 0, Dest: 5, Tail: true}
	// terminal 5's home router is 5/p = 2; port 5%p = 1 ejects it.
	farRouter, farPort := net.Deliver(2, 1, f)
	if farRouter != -1 || farPort != -1 {
		t.Fatalf("Deliver on a terminal port = (%d,%d), want (-1,-1)", farRouter, farPort)
	}
}

func TestNetworkUnknownRoutingFunctionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an unknown routing function")
		}
	}()
	c := demoConfig()
	c.Set("routing_function", "not_a_real_function")
	NewNetwork(c, constRNG{u: 0.1}, CreateTraceManager("t", false))
}

package booksim

import "testing"

func TestSimulationRunDeliversTraffic(t *testing.T) {
	config := demoConfig()
	rng := constRNG{u: 0.37}
	net := NewNetwork(config, rng, CreateTraceManager("t", false))

	sources := make([]*TrafficSource, net.Topo.N)
	for term := range sources {
		sources[term] = NewTrafficSource(term, UniformRandomTraffic, rng, 4.0, 2, config.GetInt("num_vcs", 1))
	}

	sim := NewSimulation(net, sources)
	stats := sim.Run(200)

	if stats.Injected == 0 {
		t.Fatal("expected at least one injected packet over 200 cycles")
	}
	if stats.Delivered+stats.Dropped > stats.Injected {
		t.Fatalf("delivered(%d)+dropped(%d) exceeds injected(%d)", stats.Delivered, stats.Dropped, stats.Injected)
	}
}

// Command dfsim drives a relative-Dragonfly network under synthetic
// uniform-random traffic for a fixed number of cycles and reports how
// many flits were delivered, a minimal stand-in for the full offline
// simulation driver that the core (BufferState/BufferPolicy, topology,
// routing) is deliberately agnostic about.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cramja/booksim2"
)

func main() {
	p := flag.Int("p", 4, "processors (terminals) per router")
	numVCs := flag.Int("vcs", 3, "number of virtual channels")
	routingFn := flag.String("routing", "ugal_dragonflyrelative", "routing function name")
	bufferPolicy := flag.String("buffer_policy", "shared", "buffer admission policy")
	cycles := flag.Int("cycles", 2000, "cycles to run")
	traceFile := flag.String("trace", "", "if set, write a yaml flit trace to this file")
	flag.Parse()

	config := booksim.NewConfiguration()
	config.Set("k", *p)
	config.Set("n", 1)
	config.Set("num_vcs", *numVCs)
	config.Set("buffer_policy", *bufferPolicy)
	config.Set("routing_function", *routingFn)
	config.Set("buf_size", 64)

	rng := booksim.NewRNGStream("dfsim-traffic")
	trace := booksim.CreateTraceManager("dfsim", *traceFile != "")

	net := booksim.NewNetwork(config, rng, trace)
	log.Printf("built %s with %d routers (p=%d, a=%d, g=%d, n=%d)",
		*routingFn, net.Topo.NumRouters, net.Topo.P, net.Topo.A, net.Topo.G, net.Topo.N)

	if err := booksim.CheckIntraGroupMesh(net.Topo, net.Channels); err != nil {
		log.Fatalf("topology check failed: %v", err)
	}
	if err := booksim.CheckInterGroupSymmetry(net.Topo, net.Channels); err != nil {
		log.Fatalf("topology check failed: %v", err)
	}
	if err := booksim.CheckMinimalHopBound(net.Topo, net.Channels); err != nil {
		log.Fatalf("topology check failed: %v", err)
	}

	sources := make([]*booksim.TrafficSource, net.Topo.N)
	for t := range sources {
		sources[t] = booksim.NewTrafficSource(t, booksim.UniformRandomTraffic, rng, 8.0, 4, *numVCs)
	}

	sim := booksim.NewSimulation(net, sources)
	stats := sim.Run(*cycles)

	fmt.Printf("injected=%d delivered=%d dropped=%d avg_hops=%.2f\n",
		stats.Injected, stats.Delivered, stats.Dropped, stats.AverageHops())

	if *traceFile != "" {
		trace.WriteToFile(*traceFile)
	}
}

package booksim

import "testing"

type fakeRouter struct {
	id      int
	credits map[int]int
}

func (r *fakeRouter) GetID() int       { return r.id }
func (r *fakeRouter) FullName() string { return "fake" }
func (r *fakeRouter) GetUsedCredit(outputPort int) int {
	return r.credits[outputPort]
}

type fixedRNG struct{ u float64 }

func (f fixedRNG) RandU01() float64 { return f.u }

func TestMinRoutingSameGroup(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	ctx := &RoutingContext{Topo: tp, NumVCs: 2}
	r := &fakeRouter{id: 0}
	f := &Flit{Dest: 5}
	outputs := NewOutputSet()

	MinDragonFlyRelative(ctx, r, f, 0, outputs, false)

	ranges := outputs.Ranges()
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if ranges[0].Port != 3 {
		t.Errorf("port = %d, want 3 (intra-group hop)", ranges[0].Port)
	}
	if f.Ph != 1 {
		t.Errorf("Ph = %d, want 1 (same-group phase)", f.Ph)
	}
}

func TestMinRoutingDistantGroup(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	ctx := &RoutingContext{Topo: tp, NumVCs: 2}
	r0 := &fakeRouter{id: 0}
	f := &Flit{Dest: 40}
	outputs := NewOutputSet()

	MinDragonFlyRelative(ctx, r0, f, 0, outputs, false)
	if f.Ph != 0 {
		t.Errorf("Ph at source = %d, want 0", f.Ph)
	}
	ranges := outputs.Ranges()
	if ranges[0].Port != 3 {
		t.Errorf("port at source = %d, want 3", ranges[0].Port)
	}

	r2 := &fakeRouter{id: 2}
	MinDragonFlyRelative(ctx, r2, f, tp.P+3, outputs, false)
	if f.Ph != 1 {
		t.Errorf("Ph after crossing the global link = %d, want 1", f.Ph)
	}
	ranges = outputs.Ranges()
	if ranges[0].Port != tp.globalPortBase() {
		t.Errorf("port at global hop = %d, want %d", ranges[0].Port, tp.globalPortBase())
	}
	if ranges[0].VCLo != 1 {
		t.Errorf("vc at global hop = %d, want 1", ranges[0].VCLo)
	}

	if hc := HopCount(tp, 0, 40); hc > 3 {
		t.Errorf("HopCount = %d exceeds 3-hop bound", hc)
	}
}

// TestUgalPrefersNonMinimalUnderCongestion covers S7's first case:
// a heavily loaded minimal path (q_min=100) against a light
// non-minimal one (q_non=10) should route non-minimally (ph=0).
func TestUgalPrefersNonMinimalUnderCongestion(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	// u=0.5 over N=72 terminals draws intm=36, group 4 (!= source
	// group 0 and != dest group 5), landing in the congestion-compare branch.
	ctx := &RoutingContext{Topo: tp, NumVCs: 3, RNG: fixedRNG{u: 0.5}}
	r := &fakeRouter{id: 0, credits: map[int]int{3: 100, 2: 10}} // port 3 = min, port 2 = non-min
	f := &Flit{Dest: 40}
	outputs := NewOutputSet()

	UgalDragonFlyRelative(ctx, r, f, 0, outputs, false)

	if f.Ph != 0 {
		t.Fatalf("Ph = %d, want 0 (non-minimal)", f.Ph)
	}
	if got := outputs.Ranges()[0].Port; got != 2 {
		t.Fatalf("port = %d, want 2 (non-minimal)", got)
	}
}

// TestUgalPrefersMinimalWhenNonMinimalCongested covers S7's second
// case: a light minimal path against a heavily loaded non-minimal one
// should route minimally (ph=1).
func TestUgalPrefersMinimalWhenNonMinimalCongested(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	ctx := &RoutingContext{Topo: tp, NumVCs: 3, RNG: fixedRNG{u: 0.5}}
	r := &fakeRouter{id: 0, credits: map[int]int{3: 5, 2: 100}}
	f := &Flit{Dest: 40}
	outputs := NewOutputSet()

	UgalDragonFlyRelative(ctx, r, f, 0, outputs, false)

	if f.Ph != 1 {
		t.Fatalf("Ph = %d, want 1 (minimal)", f.Ph)
	}
	if got := outputs.Ranges()[0].Port; got != 3 {
		t.Fatalf("port = %d, want 3 (minimal)", got)
	}
}

func TestUgalRequiresThreeVCs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for num_vcs != 3")
		}
	}()
	tp := NewTopologyParams(p2Config())
	ctx := &RoutingContext{Topo: tp, NumVCs: 2, RNG: fixedRNG{u: 0.1}}
	UgalDragonFlyRelative(ctx, &fakeRouter{id: 0}, &Flit{Dest: 5}, 0, NewOutputSet(), false)
}

// TestWatchedFlitTracesRoutingDecision covers the supplemented
// watch behavior: a flit with Watch set gets its routing decision
// recorded via TraceFlit instead of blocking on stdin, while an
// unwatched flit through the same router produces no trace.
func TestWatchedFlitTracesRoutingDecision(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	trace := CreateTraceManager("watch-test", true)
	ctx := &RoutingContext{Topo: tp, NumVCs: 2, Trace: trace}
	r := &fakeRouter{id: 0}
	outputs := NewOutputSet()

	watched := &Flit{PID: 1, Dest: 5, Watch: true}
	MinDragonFlyRelative(ctx, r, watched, 0, outputs, false)
	if len(trace.Traces[watched.PID]) != 1 {
		t.Fatalf("got %d trace records for a watched flit, want 1", len(trace.Traces[watched.PID]))
	}
	if got := trace.Traces[watched.PID][0].TraceType; got != "flit" {
		t.Errorf("TraceType = %q, want %q", got, "flit")
	}

	unwatched := &Flit{PID: 2, Dest: 5}
	MinDragonFlyRelative(ctx, r, unwatched, 0, outputs, false)
	if len(trace.Traces[unwatched.PID]) != 0 {
		t.Fatalf("got %d trace records for an unwatched flit, want 0", len(trace.Traces[unwatched.PID]))
	}
}

func TestInjectionPicksAVC(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	ctx := &RoutingContext{Topo: tp, NumVCs: 2, RNG: fixedRNG{u: 0.99}}
	outputs := NewOutputSet()
	MinDragonFlyRelative(ctx, &fakeRouter{id: 0}, &Flit{}, -1, outputs, true)

	ranges := outputs.Ranges()
	if len(ranges) != 1 || ranges[0].Port != -1 {
		t.Fatalf("injection output = %+v, want a single port -1 range", ranges)
	}
	if ranges[0].VCLo < 0 || ranges[0].VCLo >= ctx.NumVCs {
		t.Fatalf("injection VC %d out of range [0,%d)", ranges[0].VCLo, ctx.NumVCs)
	}
}

package booksim

import (
	"testing"

	"github.com/iti/evt/vrtime"
)

func TestBufferStatePrivatePolicy(t *testing.T) {
	config := NewConfiguration()
	config.Set("num_vcs", 4)
	config.Set("vc_buf_size", 4)
	config.Set("buffer_policy", "private")

	bs := NewBufferState(config, nil, "bs")
	bs.TakeBuffer(0)
	for i := 0; i < 4; i++ {
		bs.SendingFlit(&Flit{ID: i, VC: 0})
	}

	if !bs.IsFullFor(0) {
		t.Error("IsFullFor(0) = false after 4 pushes on a 4-slot VC, want true")
	}
	if bs.IsFullFor(1) {
		t.Error("IsFullFor(1) = true for an untouched VC, want false")
	}

	c := NewCredit()
	c.AddVC(0)
	bs.ProcessCredit(c)

	if bs.IsFullFor(0) {
		t.Error("IsFullFor(0) = true after a credit freed a slot, want false")
	}
}

func TestBufferStateSharedPolicy(t *testing.T) {
	config := NewConfiguration()
	config.Set("num_vcs", 2)
	config.Set("buf_size", 8)
	config.Set("private_bufs", 2)
	config.Set("private_buf_size", 2)
	config.Set("buffer_policy", "shared")

	bs := NewBufferState(config, nil, "bs")
	bs.TakeBuffer(0)

	bs.SendingFlit(&Flit{ID: 0, VC: 0})
	bs.SendingFlit(&Flit{ID: 1, VC: 0})
	if bs.IsFullFor(0) {
		t.Error("IsFullFor(0) = true with bucket full but shared pool untouched, want false")
	}

	bs.SendingFlit(&Flit{ID: 2, VC: 0})
	for i := 3; i < 6; i++ {
		bs.SendingFlit(&Flit{ID: i, VC: 0})
	}

	if !bs.IsFullFor(0) {
		t.Error("IsFullFor(0) = false after saturating the shared pool, want true")
	}
}

func TestFeedbackPolicyOccupancyLimit(t *testing.T) {
	prevClock := globalSimClock
	defer SetSimClock(prevClock)

	tick := 0.0
	SetSimClock(func() vrtime.Time { return vrtime.SecondsToTime(tick) })

	config := NewConfiguration()
	config.Set("num_vcs", 1)
	config.Set("buf_size", 100)
	config.Set("buffer_policy", "feedback")
	config.Set("feedback_aging_scale", 4)
	config.Set("feedback_offset", 0)

	bs := NewBufferState(config, nil, "bs")
	bs.TakeBuffer(0)

	// first probe: sent at tick 0, credit back at tick 20.
	tick = 0
	bs.SendingFlit(&Flit{ID: 0, VC: 0})
	tick = 20
	c := NewCredit()
	c.AddVC(0)
	bs.ProcessCredit(c)

	fp := bs.policy.(*feedbackPolicy)
	// buffer_state.cpp's FreeSlotFor computes
	// occupancy_limit = 2*min_rtt - rtt + offset; with min_rtt=rtt=20
	// and offset=0 that is 20, not the rounder "40" BookSim's own
	// comments suggest at a glance.
	if fp.minRoundTripTime != 20 {
		t.Errorf("minRoundTripTime = %d, want 20", fp.minRoundTripTime)
	}
	if fp.roundTripTime[0] != 20 {
		t.Errorf("roundTripTime[0] = %d, want 20", fp.roundTripTime[0])
	}
	if fp.occupancyLimit[0] != 20 {
		t.Errorf("occupancyLimit[0] = %d, want 20", fp.occupancyLimit[0])
	}

	// second probe: sent at tick 20, credit back at tick 50 (last_rtt=30).
	tick = 20
	bs.SendingFlit(&Flit{ID: 1, VC: 0})
	tick = 50
	bs.ProcessCredit(c)

	if fp.roundTripTime[0] != 20 {
		t.Errorf("roundTripTime[0] after aging = %d, want 20", fp.roundTripTime[0])
	}
	if fp.occupancyLimit[0] != 20 {
		t.Errorf("occupancyLimit[0] after second sample = %d, want 20", fp.occupancyLimit[0])
	}
}

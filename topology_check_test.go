package booksim

import "testing"

func TestCheckIntraGroupMesh(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	channels := BuildDragonFlyRelative(tp)
	if err := CheckIntraGroupMesh(tp, channels); err != nil {
		t.Fatalf("CheckIntraGroupMesh: %v", err)
	}
}

func TestCheckInterGroupSymmetry(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	channels := BuildDragonFlyRelative(tp)
	if err := CheckInterGroupSymmetry(tp, channels); err != nil {
		t.Fatalf("CheckInterGroupSymmetry: %v", err)
	}
}

func TestCheckMinimalHopBound(t *testing.T) {
	tp := NewTopologyParams(p2Config())
	channels := BuildDragonFlyRelative(tp)
	if err := CheckMinimalHopBound(tp, channels); err != nil {
		t.Fatalf("CheckMinimalHopBound: %v", err)
	}
}

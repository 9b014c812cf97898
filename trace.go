package booksim

import (
	"encoding/json"
	"os"
	"path"
	"strconv"

	"github.com/iti/evt/vrtime"
	"gopkg.in/yaml.v3"
)

// TraceInst is one recorded event, serialized ready for the trace file.
type TraceInst struct {
	TraceTime string
	TraceType string
	TraceStr  string
}

// TraceManager gathers flit-watch events for post-run analysis, the
// same on/off-switchable accumulate-then-dump idiom the teacher uses
// for its own network trace: the InUse flag lets every call site call
// AddTrace unconditionally without a caller-side "if tracing" branch.
type TraceManager struct {
	InUse   bool                `json:"inuse" yaml:"inuse"`
	ExpName string              `json:"expname" yaml:"expname"`
	Traces  map[int][]TraceInst `json:"traces" yaml:"traces"`
}

// CreateTraceManager is a constructor, mirroring the teacher's
// CreateTraceManager(expName, active).
func CreateTraceManager(expName string, active bool) *TraceManager {
	return &TraceManager{
		InUse:   active,
		ExpName: expName,
		Traces:  make(map[int][]TraceInst),
	}
}

func (tm *TraceManager) Active() bool { return tm.InUse }

// AddTrace records one flit's passage. execID keys the trace, matching
// the teacher's convention of grouping trace records under a chain id
// (here, the flit's PID).
func (tm *TraceManager) AddTrace(vrt vrtime.Time, execID int, trace TraceInst) {
	if !tm.InUse {
		return
	}
	tm.Traces[execID] = append(tm.Traces[execID], trace)
}

// WriteToFile stores the accumulated traces, choosing json or yaml by
// the file's extension, per the teacher's WriteToFile convention.
func (tm *TraceManager) WriteToFile(filename string) bool {
	if !tm.InUse {
		return false
	}
	var bytes []byte
	var err error

	switch path.Ext(filename) {
	case ".yaml", ".YAML", ".yml":
		bytes, err = yaml.Marshal(*tm)
	case ".json", ".JSON":
		bytes, err = json.MarshalIndent(*tm, "", "\t")
	default:
		Error(nil, "trace file extension must be .yaml, .yml, or .json")
	}
	if err != nil {
		panic(err)
	}

	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if _, err := f.Write(bytes); err != nil {
		panic(err)
	}
	return true
}

// FlitTrace records a flit's visit to a router, replacing the
// original's blocking getchar()-based "watch" debugger (spec.md §9.1
// supplemented behavior) with a trace record any offline tool can
// consume.
type FlitTrace struct {
	Time     float64
	Ticks    int64
	Priority int64
	FlitID   int
	PID      int
	VC       int
	RouterID int
	Op       string // "arrive", "route", "depart"
}

func (ft *FlitTrace) Serialize() string {
	bytes, err := yaml.Marshal(*ft)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// TraceFlit appends a FlitTrace record for f if f.Watch is set and tm
// is in use, giving watch-flagged flits the same per-cycle visibility
// the original gave via an interactive breakpoint.
func TraceFlit(tm *TraceManager, vrt vrtime.Time, f *Flit, routerID int, op string) {
	if tm == nil || !tm.InUse || !f.Watch {
		return
	}
	ft := &FlitTrace{
		Time:     vrt.Seconds(),
		Ticks:    vrt.Ticks(),
		Priority: vrt.Pri(),
		FlitID:   f.ID,
		PID:      f.PID,
		VC:       f.VC,
		RouterID: routerID,
		Op:       op,
	}
	traceTime := strconv.FormatFloat(vrt.Seconds(), 'f', -1, 64)
	tm.AddTrace(vrt, f.PID, TraceInst{TraceTime: traceTime, TraceType: "flit", TraceStr: ft.Serialize()})
}

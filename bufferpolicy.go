package booksim

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// bufferPolicyNames lists every buffer_policy value NewBufferPolicy
// accepts, in the same order as spec.md §4.1 enumerates the variants.
var bufferPolicyNames = []string{"private", "shared", "limited", "dynamic", "shifting", "feedback", "simplefeedback"}

// BufferPolicy is the four-operation contract every buffer-admission
// strategy implements. BufferState invokes these at the points
// documented in spec.md §4.1; the policy is handed its owning
// BufferState on every call (a borrowed reference, per spec.md §9)
// rather than storing the pointer itself, so policies never
// participate in BufferState's ownership graph.
type BufferPolicy interface {
	TakeBuffer(bs *BufferState, vc int)
	SendingFlit(bs *BufferState, f *Flit)
	FreeSlotFor(bs *BufferState, vc int)
	IsFullFor(bs *BufferState, vc int) bool
}

// NewBufferPolicy dispatches on the "buffer_policy" configuration key
// to construct one of the seven variants. An unrecognized name is a
// fatal configuration error, never a silent fallback.
func NewBufferPolicy(config *Configuration, parent *namedModule, name string) BufferPolicy {
	policyName := config.GetStr("buffer_policy", "private")
	if !slices.Contains(bufferPolicyNames, policyName) {
		Error(parent, fmt.Sprintf("unknown buffer policy: %s (want one of %v)", policyName, bufferPolicyNames))
	}
	switch policyName {
	case "private":
		return newPrivatePolicy(config, parent, name)
	case "shared":
		return newSharedPolicy(config, parent, name)
	case "limited":
		return newLimitedPolicy(config, parent, name)
	case "dynamic":
		return newDynamicLimitedPolicy(config, parent, name)
	case "shifting":
		return newShiftingDynamicLimitedPolicy(config, parent, name)
	case "feedback":
		return newFeedbackPolicy(config, parent, name)
	case "simplefeedback":
		return newSimpleFeedbackPolicy(config, parent, name)
	default:
		Error(parent, fmt.Sprintf("unknown buffer policy: %s", policyName))
		return nil
	}
}

package booksim

import "fmt"

// namedModule gives any core object a hierarchical name, the same role
// Module plays in the original BookSim source and that the teacher's
// devices (routerDev, intrfcStruct, ...) play with their own devName()/
// FullName() methods.
type namedModule struct {
	name   string
	parent *namedModule
}

func newNamedModule(parent *namedModule, name string) namedModule {
	return namedModule{name: name, parent: parent}
}

// FullName returns the dotted path from the root module to this one.
func (m *namedModule) FullName() string {
	if m.parent == nil {
		return m.name
	}
	return m.parent.FullName() + "." + m.name
}

// Error is the central fatal-error sink every CORE invariant violation,
// configuration error, and assertion failure reports through. It is
// never recovered from locally: the simulator's only priority is
// correctness, so a violated invariant aborts the run.
func Error(name *namedModule, message string) {
	full := "<root>"
	if name != nil {
		full = name.FullName()
	}
	panic(fmt.Errorf("%s: %s", full, message))
}

package booksim

import "github.com/iti/rngstream"

// randSource is the small surface this package needs from an RNG
// stream; satisfied by *rngstream.RngStream. Routing functions take
// this interface (rather than the concrete type) so tests can supply
// a deterministic stub.
type randSource interface {
	RandU01() float64
}

// NewRNGStream creates a named random stream, one per router, the
// same way the teacher gives every device its own rngstream.RngStream
// keyed by device name (net.go's ns.rngstrm = rngstream.New(name)).
func NewRNGStream(name string) *rngstream.RngStream {
	return rngstream.New(name)
}

// randIntn draws a uniform integer in [0, n) from rng. BookSim's
// RandomInt(n) returns a value in [0, n]; callers here pass the
// exclusive bound n where BookSim passes the inclusive bound n-1
// (randIntn(rng, numVCs) for RandomInt(gNumVCs-1), randIntn(rng, N)
// for RandomInt(_network_size - 1)).
func randIntn(rng randSource, n int) int {
	if n <= 0 {
		return 0
	}
	u := rng.RandU01()
	if u >= 1.0 {
		u = 0.999999999
	}
	return int(u * float64(n))
}

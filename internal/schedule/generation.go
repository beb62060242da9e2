package schedule

import "sync/atomic"

// Generation hands out monotonically increasing request ids so that a
// response to a superseded load can be recognised and dropped.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new request and returns its id.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current returns the id of the latest request.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}

// IsCurrent reports whether id belongs to the latest request.
func (g *Generation) IsCurrent(id uint64) bool {
	return id == g.n.Load()
}

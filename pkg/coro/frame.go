package coro

import "github.com/coroview/coroview/pkg/remote"

// Variable is one captured value of a reconstructed frame: the spilled
// local's display name and a handle to its remote value.
type Variable struct {
	Name string
	Ref  remote.Object
}

// Frame is one reconstructed logical frame of a suspended coroutine.
type Frame struct {
	Location  remote.Location
	Variables []Variable
}

// MergedFrameKind discriminates the frames of a MergedStack.
type MergedFrameKind uint8

const (
	// KindPhysical is an untouched live frame of the thread.
	KindPhysical MergedFrameKind = iota
	// KindBoundary is the synthetic frame marking where control
	// crossed from synchronous execution into coroutine machinery.
	KindBoundary
	// KindLogical is a frame reconstructed from the continuation
	// chain.
	KindLogical
)

func (k MergedFrameKind) String() string {
	switch k {
	case KindPhysical:
		return "physical"
	case KindBoundary:
		return "boundary"
	case KindLogical:
		return "logical"
	}
	return "unknown"
}

// MergedFrame is one entry of a MergedStack.
type MergedFrame struct {
	Kind     MergedFrameKind
	Location remote.Location
	// Variables is set for logical frames only.
	Variables []Variable
	// Physical is the underlying live frame for physical entries.
	Physical remote.PhysicalFrame
}

// MergedStack is a single coherent stack for a thread suspended inside
// coroutine-resumption machinery: the synthetic boundary frame, the
// logical frames reconstructed from the continuation chain, then the
// live physical frames from the boundary outward, unmodified. Frames
// are ordered innermost first.
type MergedStack struct {
	Frames []MergedFrame
}

// LogicalLen returns the number of reconstructed logical frames.
func (s *MergedStack) LogicalLen() int {
	n := 0
	for i := range s.Frames {
		if s.Frames[i].Kind == KindLogical {
			n++
		}
	}
	return n
}

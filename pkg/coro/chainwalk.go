package coro

import "github.com/coroview/coroview/pkg/remote"

// ReconstructFromContinuation follows completion links from ref and
// returns the reconstructed logical frames in completion-link order,
// closest frame first. The walk stops at the first object that is not
// a base continuation, at a missing completion link, or at the depth
// bound. A frame whose location cannot be read is skipped; frames
// already collected are never discarded. The result is best effort and
// errors never propagate to the caller.
//
// The whole walk runs as one job on the target's command thread.
func (t *Target) ReconstructFromContinuation(ref remote.Object) []Frame {
	var frames []Frame
	err := t.ctx.RunOnCommandThread(func() error {
		frames = t.walkChain(t.ContinuationAt(ref))
		return nil
	})
	if err != nil {
		t.chainLog.WithError(err).Error("continuation chain walk failed")
		return nil
	}
	return frames
}

// walkChain is the walker body; it must already be on the command
// thread.
func (t *Target) walkChain(c *Continuation) []Frame {
	frames := []Frame{}
	visited := make(map[uint64]bool)
	for depth := 0; c != nil; depth++ {
		if depth >= t.MaxChainDepth {
			t.chainLog.Warnf("continuation chain truncated at depth %d", depth)
			break
		}
		if !c.IsBase() {
			break
		}
		id := c.Object().UniqueID()
		if visited[id] {
			t.chainLog.Warnf("continuation cycle through %#x, truncating", id)
			break
		}
		visited[id] = true

		if frame, ok := t.reconstructFrame(c); ok {
			frames = append(frames, frame)
		}

		next, err := c.Completion()
		if err != nil {
			t.chainLog.Debugf("cannot read completion of %#x: %v", id, err)
			break
		}
		c = next
	}
	return frames
}

// reconstructFrame builds the logical frame for one continuation.
// Returns false when the continuation exposes no location; the walk
// skips such frames silently.
func (t *Target) reconstructFrame(c *Continuation) (Frame, bool) {
	elem, err := c.traceElement()
	if err != nil {
		t.chainLog.Debugf("cannot get trace element of %#x: %v", c.Object().UniqueID(), err)
		return Frame{}, false
	}
	if elem == nil {
		return Frame{}, false
	}
	raw, err := t.readTraceElement(elem)
	if err != nil {
		t.chainLog.Debugf("cannot read trace element of %#x: %v", c.Object().UniqueID(), err)
		return Frame{}, false
	}
	return Frame{
		Location:  t.resolveLocation(raw),
		Variables: c.SpilledVariables(),
	}, true
}

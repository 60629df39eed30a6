package coro

import (
	"github.com/coroview/coroview/pkg/remote"
)

// PreflightStack reconstructs a single coherent stack for a thread
// halted inside coroutine-resumption machinery. frameIdx designates
// the thread's current frame within the provider's snapshot.
//
// A nil result means no reconstruction applies at this position. That
// is the normal answer for a frame that is neither a resume marker nor
// a preflight marker, for a preflight frame with the suspended
// sentinel further up the same physical stack (the coroutine's real
// frames continue normally, reconstructing would double-report), and
// for a resume frame whose continuation slot cannot be read.
func (t *Target) PreflightStack(provider remote.ThreadSnapshotProvider, thread remote.Thread, frameIdx int) *MergedStack {
	var stack *MergedStack
	err := t.ctx.RunOnCommandThread(func() error {
		stack = t.buildPreflight(provider, thread, frameIdx)
		return nil
	})
	if err != nil {
		t.preflightLog.WithError(err).Error("preflight reconstruction failed")
		return nil
	}
	return stack
}

func (t *Target) buildPreflight(provider remote.ThreadSnapshotProvider, thread remote.Thread, frameIdx int) *MergedStack {
	frames, err := provider.Frames(thread)
	if err != nil {
		t.preflightLog.Debugf("cannot snapshot thread %d: %v", thread.UniqueID(), err)
		return nil
	}
	if frameIdx < 0 || frameIdx >= len(frames) {
		return nil
	}

	loc := frames[frameIdx].Location()
	switch {
	case t.markers.IsResumeFrame(loc):
		return t.assemble(frames, frameIdx, t.resumeContinuation(frames, frameIdx))

	case t.markers.IsPreflightFrame(loc):
		// The sentinel further up means the coroutine is not actually
		// suspended at this position.
		for i := frameIdx; i < len(frames); i++ {
			if t.markers.IsSuspendedSentinel(frames[i].Location()) {
				t.preflightLog.Debugf("suspended sentinel at frame %d, skipping reconstruction", i)
				return nil
			}
		}
		if frameIdx+1 >= len(frames) || !t.markers.IsResumeFrame(frames[frameIdx+1].Location()) {
			return nil
		}
		return t.assemble(frames, frameIdx, t.resumeContinuation(frames, frameIdx+1))
	}
	return nil
}

// resumeContinuation recovers the continuation being resumed from the
// designated slot of the resume frame at index idx.
func (t *Target) resumeContinuation(frames []remote.PhysicalFrame, idx int) *Continuation {
	if idx < 0 || idx >= len(frames) {
		return nil
	}
	obj, err := frames[idx].Variable(t.markers.ContinuationSlot)
	if err != nil {
		t.preflightLog.Debugf("cannot read %q slot of frame %d: %v", t.markers.ContinuationSlot, idx, err)
		return nil
	}
	if obj == nil || obj.IsNull() {
		return nil
	}
	return t.ContinuationAt(obj)
}

// assemble builds the merged stack: the synthetic boundary frame, the
// reconstructed chain (possibly empty), then the physical frames from
// frameIdx outward, unmodified.
func (t *Target) assemble(frames []remote.PhysicalFrame, frameIdx int, c *Continuation) *MergedStack {
	if c == nil {
		return nil
	}
	chain := t.walkChain(c)

	merged := make([]MergedFrame, 0, len(chain)+len(frames)-frameIdx+1)
	merged = append(merged, MergedFrame{
		Kind: KindBoundary,
		Location: remote.Location{
			DeclaringType: c.Object().TypeName(),
			Method:        "Coroutine boundary",
			Line:          -1,
			Generated:     true,
		},
	})
	for i := range chain {
		merged = append(merged, MergedFrame{
			Kind:      KindLogical,
			Location:  chain[i].Location,
			Variables: chain[i].Variables,
		})
	}
	for i := frameIdx; i < len(frames); i++ {
		merged = append(merged, MergedFrame{
			Kind:     KindPhysical,
			Location: frames[i].Location(),
			Physical: frames[i],
		})
	}
	return &MergedStack{Frames: merged}
}

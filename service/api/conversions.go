package api

import (
	"github.com/coroview/coroview/pkg/coro"
	"github.com/coroview/coroview/pkg/remote"
)

// ConvertLocation converts a remote location to an API location.
func ConvertLocation(loc remote.Location) Location {
	return Location{
		DeclaringType: loc.DeclaringType,
		Method:        loc.Method,
		Line:          loc.Line,
		Generated:     loc.Generated,
	}
}

// ConvertFrame converts a reconstructed frame to an API frame.
func ConvertFrame(f coro.Frame) Frame {
	out := Frame{Location: ConvertLocation(f.Location)}
	for _, v := range f.Variables {
		av := Variable{Name: v.Name}
		if v.Ref != nil && !v.Ref.IsNull() {
			av.TypeName = v.Ref.TypeName()
		}
		out.Variables = append(out.Variables, av)
	}
	return out
}

// ConvertFrames converts a frame slice, preserving order. A non-nil
// empty slice is returned for empty input: zero reconstructed frames
// is a valid result, not an absence.
func ConvertFrames(frames []coro.Frame) []Frame {
	out := make([]Frame, 0, len(frames))
	for _, f := range frames {
		out = append(out, ConvertFrame(f))
	}
	return out
}

// ConvertCoroutine converts an instrumentation snapshot entry.
func ConvertCoroutine(info coro.CoroutineInfo) Coroutine {
	return Coroutine{
		Name:                  info.Name,
		ID:                    info.Sequence,
		State:                 CoroutineState(info.State.String()),
		RestoredFrames:        ConvertFrames(info.RestoredFrames),
		CreationFrames:        ConvertFrames(info.CreationFrames),
		HasLastObservedThread: info.LastObservedThread != nil,
	}
}

// ConvertMergedStack converts a merged stack.
func ConvertMergedStack(stack *coro.MergedStack) *MergedStack {
	if stack == nil {
		return nil
	}
	out := &MergedStack{Frames: make([]MergedFrame, 0, len(stack.Frames))}
	for _, mf := range stack.Frames {
		amf := MergedFrame{
			Kind:     MergedFrameKind(mf.Kind.String()),
			Location: ConvertLocation(mf.Location),
		}
		for _, v := range mf.Variables {
			av := Variable{Name: v.Name}
			if v.Ref != nil && !v.Ref.IsNull() {
				av.TypeName = v.Ref.TypeName()
			}
			amf.Variables = append(amf.Variables, av)
		}
		out.Frames = append(out.Frames, amf)
	}
	return out
}

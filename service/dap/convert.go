// Package dap converts reconstructed coroutine stacks into Debug
// Adapter Protocol payloads. Only the conversion lives here; serving
// DAP requests is the embedding frontend's concern.
package dap

import (
	"fmt"

	"github.com/google/go-dap"

	"github.com/coroview/coroview/service/api"
)

// frame IDs are synthesized per conversion; DAP clients treat them as
// opaque within one stopped state.

// ConvertMergedStack renders a merged coroutine stack as DAP stack
// frames. Boundary and generated frames get a subtle presentation
// hint so clients de-emphasize them the way they do runtime frames.
func ConvertMergedStack(stack *api.MergedStack, baseID int) []dap.StackFrame {
	if stack == nil {
		return nil
	}
	out := make([]dap.StackFrame, 0, len(stack.Frames))
	for i, mf := range stack.Frames {
		out = append(out, convertFrame(baseID+i, mf.Kind, mf.Location))
	}
	return out
}

// ConvertCoroutine renders one dumped coroutine: its restored frames
// followed by a labeled creation-stack section.
func ConvertCoroutine(c api.Coroutine, baseID int) []dap.StackFrame {
	out := make([]dap.StackFrame, 0, len(c.RestoredFrames)+len(c.CreationFrames)+1)
	for _, f := range c.RestoredFrames {
		out = append(out, convertFrame(baseID+len(out), api.FrameLogical, f.Location))
	}
	if len(c.CreationFrames) > 0 {
		out = append(out, dap.StackFrame{
			Id:               baseID + len(out),
			Name:             "Coroutine creation stack trace",
			Line:             0,
			PresentationHint: "label",
		})
		for _, f := range c.CreationFrames {
			out = append(out, convertFrame(baseID+len(out), api.FrameLogical, f.Location))
		}
	}
	return out
}

// ConvertThreads renders dumped coroutines as DAP threads, one per
// tracked coroutine, named the way the instrumentation library names
// them.
func ConvertThreads(coroutines []api.Coroutine) []dap.Thread {
	out := make([]dap.Thread, 0, len(coroutines))
	for _, c := range coroutines {
		out = append(out, dap.Thread{
			Id:   int(c.ID),
			Name: fmt.Sprintf("[%s] %s#%d", c.State, c.Name, c.ID),
		})
	}
	return out
}

func convertFrame(id int, kind api.MergedFrameKind, loc api.Location) dap.StackFrame {
	name := loc.DeclaringType + "." + loc.Method
	if kind == api.FrameBoundary {
		name = "Coroutine boundary"
	}
	sf := dap.StackFrame{
		Id:   id,
		Name: name,
		Line: loc.Line,
	}
	if loc.Generated || kind == api.FrameBoundary {
		sf.PresentationHint = "subtle"
		sf.Line = 0
	}
	return sf
}

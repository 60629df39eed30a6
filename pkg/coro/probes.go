package coro

import (
	"fmt"
	"strings"

	"github.com/coroview/coroview/pkg/remote"
)

// State is the lifecycle state of a tracked coroutine as reported by
// the instrumentation library.
type State uint8

const (
	// StateUnknown is the default for unrecognized or missing values.
	StateUnknown State = iota
	StateCreated
	StateRunning
	StateSuspended
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateRunning:
		return "RUNNING"
	case StateSuspended:
		return "SUSPENDED"
	}
	return "UNKNOWN"
}

func stateFromString(s string) State {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREATED":
		return StateCreated
	case "RUNNING":
		return StateRunning
	case "SUSPENDED":
		return StateSuspended
	}
	return StateUnknown
}

// Identity names one tracked coroutine.
type Identity struct {
	// Name is the coroutine's display name; a generic placeholder when
	// the target reports none.
	Name string
	// Sequence is the instrumentation library's creation sequence
	// number.
	Sequence int64
	State    State
}

// CoroutineInfo is the metadata and reconstructed stacks of one
// tracked coroutine from an instrumentation snapshot. RestoredFrames
// and CreationFrames partition the raw trace at the creation
// separator, which belongs to neither side.
type CoroutineInfo struct {
	Identity

	// RestoredFrames are the still-pending suspended frames.
	RestoredFrames []Frame
	// CreationFrames record how the coroutine was launched.
	CreationFrames []Frame

	// LastObservedThread and LastObservedFrame are opaque references
	// for later correlation with live threads. Either may be nil.
	LastObservedThread remote.Object
	LastObservedFrame  remote.Object
}

// ProbesInstalled reports whether the in-process instrumentation
// library is present and queryable in the target. Any failure during
// the check means "not installed"; this never propagates an error.
func (t *Target) ProbesInstalled() bool {
	installed := false
	err := t.ctx.RunOnCommandThread(func() error {
		cls, err := t.classes.find(t.ctx, debugProbesClass)
		if err != nil {
			return err
		}
		res, err := t.ctx.InvokeStatic(cls, probesInstalled)
		if err != nil {
			return err
		}
		if res == nil || res.IsNull() {
			return fmt.Errorf("%s.%s returned null", debugProbesClass, probesInstalled)
		}
		installed, err = t.ctx.BoolValue(res)
		return err
	})
	if err != nil {
		t.probesLog.Debugf("instrumentation probe failed: %v", err)
		return false
	}
	return installed
}

// DumpCoroutines queries the instrumentation library for every tracked
// coroutine and reconstructs each one's restored and creation stacks.
// A coroutine that cannot be read is logged and dropped; the rest of
// the dump is still returned. Without the instrumentation library the
// result is empty.
func (t *Target) DumpCoroutines() []CoroutineInfo {
	var infos []CoroutineInfo
	err := t.ctx.RunOnCommandThread(func() error {
		cls, err := t.classes.find(t.ctx, debugProbesClass)
		if err != nil {
			return err
		}
		list, err := t.ctx.InvokeStatic(cls, probesDumpAll)
		if err != nil {
			return err
		}
		if list == nil || list.IsNull() {
			return nil
		}
		elems, err := t.ctx.Elements(list)
		if err != nil {
			return err
		}
		for _, elem := range elems {
			info, err := t.readCoroutineInfo(elem)
			if err != nil {
				t.probesLog.Debugf("skipping unreadable coroutine: %v", err)
				continue
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		t.probesLog.WithError(err).Error("coroutine dump failed")
		return nil
	}
	return infos
}

func (t *Target) readCoroutineInfo(obj remote.Object) (CoroutineInfo, error) {
	info := CoroutineInfo{Identity: Identity{Name: "coroutine", State: StateUnknown}}

	seqVar, err := t.ctx.Invoke(obj, coroutineGetSeq)
	if err != nil {
		return info, err
	}
	if seqVar != nil && !seqVar.IsNull() {
		if seq, err := t.ctx.IntValue(seqVar); err == nil {
			info.Sequence = seq
		}
	}

	nameVar, err := t.ctx.Invoke(obj, coroutineGetName)
	if err == nil && nameVar != nil && !nameVar.IsNull() {
		if name, err := t.ctx.StringValue(nameVar); err == nil && name != "" {
			info.Name = name
		}
	}

	stateVar, err := t.ctx.Invoke(obj, coroutineGetState)
	if err == nil && stateVar != nil && !stateVar.IsNull() {
		if state, err := t.ctx.StringValue(stateVar); err == nil {
			info.State = stateFromString(state)
		}
	}

	// Correlation pointers are kept opaque; a read failure leaves them
	// nil.
	if th, err := t.ctx.ReadField(obj, lastObservedThreadField); err == nil && th != nil && !th.IsNull() {
		info.LastObservedThread = th
	}
	if fr, err := t.ctx.ReadField(obj, lastObservedFrameField); err == nil && fr != nil && !fr.IsNull() {
		info.LastObservedFrame = fr
	}

	trace, err := t.ctx.Invoke(obj, coroutineGetTrace)
	if err != nil {
		return info, err
	}
	if trace == nil || trace.IsNull() {
		return info, nil
	}
	elems, err := t.ctx.Elements(trace)
	if err != nil {
		return info, err
	}
	info.RestoredFrames, info.CreationFrames = t.splitTrace(elems)
	return info, nil
}

// splitTrace partitions a raw trace at the first creation-separator
// element. The separator joins neither side. Without a separator the
// whole trace counts as restored frames and the creation stack is
// empty.
func (t *Target) splitTrace(elems []remote.Object) (restored, creation []Frame) {
	side := &restored
	seen := false
	for _, elem := range elems {
		raw, err := t.readTraceElement(elem)
		if err != nil {
			t.probesLog.Debugf("skipping unreadable trace element: %v", err)
			continue
		}
		if !seen && t.markers.IsCreationSeparator(raw.declaringType) {
			seen = true
			side = &creation
			continue
		}
		*side = append(*side, Frame{Location: t.resolveLocation(raw)})
	}
	return restored, creation
}

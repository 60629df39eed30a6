package coro_test

import (
	"errors"
	"testing"

	"github.com/coroview/coroview/pkg/coro"
)

const probesClass = "kotlinx.coroutines.debug.internal.DebugProbesImpl"

func TestProbesInstalled(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass(probesClass)
	ctx.addStatic(probesClass, "isInstalled", ctx.boolObj(true))

	if !newTestTarget(ctx).ProbesInstalled() {
		t.Error("ProbesInstalled() = false, want true")
	}
}

func TestProbesNotInstalledWhenClassMissing(t *testing.T) {
	ctx := newFakeContext()
	if newTestTarget(ctx).ProbesInstalled() {
		t.Error("ProbesInstalled() = true without the probes class")
	}
}

func TestProbesInstalledNeverPropagatesErrors(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass(probesClass)
	ctx.failOn["InvokeStatic"] = errors.New("vm disconnected")

	// Must return false, not panic or propagate.
	if newTestTarget(ctx).ProbesInstalled() {
		t.Error("ProbesInstalled() = true on a failing target")
	}
}

// dumpedCoroutine scripts one entry of the instrumentation dump.
func dumpedCoroutine(ctx *fakeContext, name string, seq int64, state string, trace *fakeObject) *fakeObject {
	info := ctx.obj("kotlinx.coroutines.debug.internal.DebugCoroutineInfo")
	if name == "" {
		info.setMethod("getName", ctx.nullObj())
	} else {
		info.setMethod("getName", ctx.strObj(name))
	}
	info.setMethod("getSequenceNumber", ctx.intObj(seq))
	info.setMethod("getState", ctx.strObj(state))
	info.setMethod("getStackTrace", trace)
	info.setField("lastObservedThread", ctx.obj("java.lang.Thread"))
	info.setField("lastObservedFrame", ctx.nullObj())
	return info
}

func TestDumpCoroutinesSplitsTrace(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass(probesClass)
	ctx.addClass("com.example.MainKt")

	trace := ctx.listObj(
		ctx.traceElement("com.example.MainKt", "f1", 1),
		ctx.traceElement("com.example.MainKt", "f2", 2),
		ctx.traceElement("_COROUTINE._CREATION", "", -1),
		ctx.traceElement("com.example.MainKt", "f3", 3),
		ctx.traceElement("com.example.MainKt", "f4", 4),
	)
	info := dumpedCoroutine(ctx, "worker", 7, "SUSPENDED", trace)
	ctx.addStatic(probesClass, "dumpCoroutinesInfo", ctx.listObj(info))

	infos := newTestTarget(ctx).DumpCoroutines()
	if len(infos) != 1 {
		t.Fatalf("got %d coroutines, want 1", len(infos))
	}
	co := infos[0]
	if co.Name != "worker" || co.Sequence != 7 || co.State != coro.StateSuspended {
		t.Errorf("wrong identity: %+v", co.Identity)
	}
	if len(co.RestoredFrames) != 2 {
		t.Fatalf("got %d restored frames, want 2", len(co.RestoredFrames))
	}
	if len(co.CreationFrames) != 2 {
		t.Fatalf("got %d creation frames, want 2", len(co.CreationFrames))
	}
	if co.RestoredFrames[0].Location.Method != "f1" || co.RestoredFrames[1].Location.Method != "f2" {
		t.Errorf("wrong restored frames: %s, %s", co.RestoredFrames[0].Location, co.RestoredFrames[1].Location)
	}
	if co.CreationFrames[0].Location.Method != "f3" || co.CreationFrames[1].Location.Method != "f4" {
		t.Errorf("wrong creation frames: %s, %s", co.CreationFrames[0].Location, co.CreationFrames[1].Location)
	}
	if co.LastObservedThread == nil {
		t.Error("lastObservedThread not recorded")
	}
	if co.LastObservedFrame != nil {
		t.Error("null lastObservedFrame should stay nil")
	}
	if ctx.offThread > 0 {
		t.Errorf("%d remote accesses outside the command thread", ctx.offThread)
	}
}

func TestDumpCoroutinesNoSeparator(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass(probesClass)
	ctx.addClass("com.example.MainKt")

	trace := ctx.listObj(
		ctx.traceElement("com.example.MainKt", "f1", 1),
		ctx.traceElement("com.example.MainKt", "f2", 2),
	)
	info := dumpedCoroutine(ctx, "w", 1, "SUSPENDED", trace)
	ctx.addStatic(probesClass, "dumpCoroutinesInfo", ctx.listObj(info))

	infos := newTestTarget(ctx).DumpCoroutines()
	if len(infos) != 1 {
		t.Fatalf("got %d coroutines, want 1", len(infos))
	}
	if got := len(infos[0].RestoredFrames); got != 2 {
		t.Errorf("got %d restored frames, want 2 (whole trace is restored without a separator)", got)
	}
	if got := len(infos[0].CreationFrames); got != 0 {
		t.Errorf("got %d creation frames, want 0", got)
	}
}

func TestDumpCoroutinesDefaults(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass(probesClass)

	info := dumpedCoroutine(ctx, "", 3, "SHRUGGING", ctx.listObj())
	ctx.addStatic(probesClass, "dumpCoroutinesInfo", ctx.listObj(info))

	infos := newTestTarget(ctx).DumpCoroutines()
	if len(infos) != 1 {
		t.Fatalf("got %d coroutines, want 1", len(infos))
	}
	if infos[0].Name != "coroutine" {
		t.Errorf("Name = %q, want generic placeholder", infos[0].Name)
	}
	if infos[0].State != coro.StateUnknown {
		t.Errorf("State = %v, want StateUnknown for unrecognized value", infos[0].State)
	}
}

func TestDumpCoroutinesSkipsUnreadableEntry(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass(probesClass)
	ctx.addClass("com.example.MainKt")

	good := dumpedCoroutine(ctx, "good", 1, "RUNNING",
		ctx.listObj(ctx.traceElement("com.example.MainKt", "f", 1)))
	// Entry without any of the accessor methods.
	broken := ctx.obj("kotlinx.coroutines.debug.internal.DebugCoroutineInfo")
	ctx.addStatic(probesClass, "dumpCoroutinesInfo", ctx.listObj(broken, good))

	infos := newTestTarget(ctx).DumpCoroutines()
	if len(infos) != 1 {
		t.Fatalf("got %d coroutines, want 1 (broken entry dropped)", len(infos))
	}
	if infos[0].Name != "good" {
		t.Errorf("kept the wrong entry: %q", infos[0].Name)
	}
}

func TestDumpCoroutinesEmptyWithoutProbes(t *testing.T) {
	ctx := newFakeContext()
	if got := newTestTarget(ctx).DumpCoroutines(); len(got) != 0 {
		t.Errorf("got %d coroutines without the probes class, want 0", len(got))
	}
}

func TestStateStrings(t *testing.T) {
	states := map[coro.State]string{
		coro.StateCreated:   "CREATED",
		coro.StateRunning:   "RUNNING",
		coro.StateSuspended: "SUSPENDED",
		coro.StateUnknown:   "UNKNOWN",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

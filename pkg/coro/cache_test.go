package coro_test

import (
	"testing"

	"github.com/coroview/coroview/pkg/remote"
)

func TestClassLookupsAreCachedPerSuspendPoint(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass("com.example.MainKt")

	head := buildChain(ctx, nil,
		contSpec{typ: "com.example.MainKt$a$1", class: "com.example.MainKt", method: "a", line: 1},
		contSpec{typ: "com.example.MainKt$a$1", class: "com.example.MainKt", method: "a", line: 2},
		contSpec{typ: "com.example.MainKt$a$1", class: "com.example.MainKt", method: "a", line: 3},
	)

	tgt := newTestTarget(ctx)
	if got := len(tgt.ReconstructFromContinuation(head)); got != 3 {
		t.Fatalf("got %d frames, want 3", got)
	}

	// The continuation class and the declaring class resolve once each.
	ctx.mu.Lock()
	lookups := ctx.classLookups
	ctx.mu.Unlock()
	if lookups > 2 {
		t.Errorf("%d loaded-class lookups for a 3-frame chain over 2 classes, want at most 2", lookups)
	}
}

func TestClearCachesDropsHandles(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass("com.example.MainKt")
	head := buildChain(ctx, nil,
		contSpec{typ: "com.example.MainKt$a$1", class: "com.example.MainKt", method: "a", line: 1},
	)

	tgt := newTestTarget(ctx)
	tgt.ReconstructFromContinuation(head)

	ctx.mu.Lock()
	before := ctx.classLookups
	ctx.mu.Unlock()

	tgt.ClearCaches()
	tgt.ReconstructFromContinuation(head)

	ctx.mu.Lock()
	after := ctx.classLookups
	ctx.mu.Unlock()
	if after <= before {
		t.Error("handles were reused across ClearCaches; they must be re-resolved")
	}
}

func TestClassIndexAccumulatesNames(t *testing.T) {
	ctx := newFakeContext()
	ctx.addClass("com.example.MainKt")

	index := remote.NewClassIndex()
	head := buildChain(ctx, nil,
		contSpec{typ: "com.example.MainKt$a$1", class: "com.example.MainKt", method: "a", line: 1},
	)
	tgt := newTestTargetWithIndex(ctx, index)
	tgt.ReconstructFromContinuation(head)

	if !index.Has("com.example.MainKt") {
		t.Error("resolved class name not recorded in the index")
	}
}

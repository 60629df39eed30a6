package coro

import (
	"github.com/sirupsen/logrus"

	"github.com/coroview/coroview/pkg/logflags"
	"github.com/coroview/coroview/pkg/remote"
)

// DefaultMaxChainDepth bounds continuation chain traversal. Chains are
// finite in a well-formed target; the bound keeps a malformed or
// instrumented target from looping the walker. Truncation fails
// closed: the frames collected so far are returned.
const DefaultMaxChainDepth = 256

// Target is the coroutine-aware view of one halted target process.
// All remote access goes through the Context's command thread; Target
// performs no independent threading.
type Target struct {
	ctx     remote.Context
	markers Markers
	classes *classCache

	// MaxChainDepth bounds the continuation chain walk.
	MaxChainDepth int

	chainLog     *logrus.Entry
	probesLog    *logrus.Entry
	preflightLog *logrus.Entry
}

// NewTarget returns a Target inspecting the process behind ctx. The
// index may be nil; when present it accumulates loaded-class names for
// completion.
func NewTarget(ctx remote.Context, markers Markers, index *remote.ClassIndex) *Target {
	return &Target{
		ctx:           ctx,
		markers:       markers,
		classes:       newClassCache(index),
		MaxChainDepth: DefaultMaxChainDepth,
		chainLog:      logflags.ChainwalkLogger(),
		probesLog:     logflags.ProbesLogger(),
		preflightLog:  logflags.PreflightLogger(),
	}
}

// Markers returns the marker set the target was created with.
func (t *Target) Markers() Markers {
	return t.markers
}

// ContinuationAt wraps a remote object in a Continuation view.
func (t *Target) ContinuationAt(ref remote.Object) *Continuation {
	if ref == nil || ref.IsNull() {
		return nil
	}
	return &Continuation{ref: ref, t: t}
}

// ClearCaches drops every handle cached against the current suspend
// point. Must be called when the target resumes: handles do not
// survive a resume and must not be reused.
func (t *Target) ClearCaches() {
	t.classes.Clear()
}

// Package session exposes coroutine stack reconstruction to debugger
// frontends. It provides a higher level of abstraction over
// coro.Target: it serializes public operations, converts internal
// types to the types expected by clients, and guarantees that no
// target error ever propagates past a public entry point.
package session

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coroview/coroview/pkg/coro"
	"github.com/coroview/coroview/pkg/logflags"
	"github.com/coroview/coroview/pkg/remote"
	"github.com/coroview/coroview/service/api"
)

// Config provides the configuration for a Session.
type Config struct {
	// Markers overrides the well-known names reconstruction keys on.
	// The zero value means coro.DefaultMarkers.
	Markers *coro.Markers
	// MaxChainDepth bounds continuation chain traversal; zero means
	// the default bound.
	MaxChainDepth int
	// ClassIndex, when set, accumulates loaded-class names for
	// completion. May be nil.
	ClassIndex *remote.ClassIndex
}

// Session is one reconstruction session against one halted target.
//
// Methods are safe for concurrent use: a mutex serializes them, and a
// reconstruction requested while another is pending queues rather than
// interleaving. Every method's failure mode is an empty or partial
// result plus a log entry.
type Session struct {
	target  *coro.Target
	threads remote.ThreadSnapshotProvider

	// targetMutex serializes public operations against the target.
	targetMutex sync.Mutex

	log *logrus.Entry
}

// New creates a Session over ctx. threads may be nil if preflight
// reconstruction is not used. cfg may be nil.
func New(ctx remote.Context, threads remote.ThreadSnapshotProvider, cfg *Config) *Session {
	if cfg == nil {
		cfg = &Config{}
	}
	markers := coro.DefaultMarkers()
	if cfg.Markers != nil {
		markers = *cfg.Markers
	}
	target := coro.NewTarget(ctx, markers, cfg.ClassIndex)
	if cfg.MaxChainDepth > 0 {
		target.MaxChainDepth = cfg.MaxChainDepth
	}
	return &Session{
		target:  target,
		threads: threads,
		log:     logflags.SessionLogger(),
	}
}

// ReconstructFromContinuation walks the completion chain rooted at ref
// and returns the reconstructed logical frames, closest first. The
// result is empty, never nil, when nothing could be reconstructed.
func (s *Session) ReconstructFromContinuation(ref remote.Object) []api.Frame {
	s.targetMutex.Lock()
	defer s.targetMutex.Unlock()
	frames := s.target.ReconstructFromContinuation(ref)
	s.log.Debugf("reconstructed %d frames from continuation", len(frames))
	return api.ConvertFrames(frames)
}

// ReconstructPreflightStack builds a merged stack for a thread halted
// inside coroutine-resumption machinery. Nil means no reconstruction
// applies at this stack position; that is a normal answer, not an
// error.
func (s *Session) ReconstructPreflightStack(thread remote.Thread, frameIdx int) *api.MergedStack {
	s.targetMutex.Lock()
	defer s.targetMutex.Unlock()
	if s.threads == nil {
		s.log.Debug("no thread snapshot provider, preflight reconstruction unavailable")
		return nil
	}
	return api.ConvertMergedStack(s.target.PreflightStack(s.threads, thread, frameIdx))
}

// InstrumentationInstalled reports whether the target carries a
// queryable instrumentation library. Errors during the check mean
// false.
func (s *Session) InstrumentationInstalled() bool {
	s.targetMutex.Lock()
	defer s.targetMutex.Unlock()
	return s.target.ProbesInstalled()
}

// DumpAllCoroutines returns every coroutine tracked by the target's
// instrumentation library, with restored and creation stacks. Empty
// without the library or on failure.
func (s *Session) DumpAllCoroutines() []api.Coroutine {
	s.targetMutex.Lock()
	defer s.targetMutex.Unlock()
	infos := s.target.DumpCoroutines()
	out := make([]api.Coroutine, 0, len(infos))
	for _, info := range infos {
		out = append(out, api.ConvertCoroutine(info))
	}
	s.log.Debugf("dumped %d coroutines", len(out))
	return out
}

// ClearCaches drops every handle cached against the current suspend
// point. Callers must invoke it when the target resumes.
func (s *Session) ClearCaches() {
	s.targetMutex.Lock()
	defer s.targetMutex.Unlock()
	s.target.ClearCaches()
}

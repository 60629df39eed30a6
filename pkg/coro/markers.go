package coro

import (
	"strings"

	"github.com/coroview/coroview/pkg/remote"
)

// Well-known names of the Kotlin coroutine machinery in the target.
// Reconstruction works against any concurrency library with the same
// shape; these are the defaults and can be overridden through Markers.
const (
	baseContinuationClass = "kotlin.coroutines.jvm.internal.BaseContinuationImpl"
	debugProbesClass      = "kotlinx.coroutines.debug.internal.DebugProbesImpl"

	completionField   = "completion"
	labelField        = "label"
	traceElementGet   = "getStackTraceElement"
	probesInstalled   = "isInstalled"
	probesDumpAll     = "dumpCoroutinesInfo"
	coroutineGetState = "getState"
	coroutineGetName  = "getName"
	coroutineGetSeq   = "getSequenceNumber"
	coroutineGetTrace = "getStackTrace"

	lastObservedThreadField = "lastObservedThread"
	lastObservedFrameField  = "lastObservedFrame"

	resumeMethodName    = "resumeWith"
	preflightMethodName = "invokeSuspend"
	suspendedSentinel   = "COROUTINE_SUSPENDED"
	creationSeparator   = "_COROUTINE._CREATION"
)

// Markers identifies the pieces of the target's coroutine machinery
// that reconstruction keys on. The zero value is not useful; start
// from DefaultMarkers.
type Markers struct {
	// BaseContinuationClass is the class whose subclasses represent a
	// suspended frame.
	BaseContinuationClass string
	// CompletionField links a continuation to the one it resumes into.
	CompletionField string
	// ResumeMethod is the method a coroutine is resumed through; a
	// physical frame in it is a boundary-entry frame.
	ResumeMethod string
	// PreflightMethod is the state-machine entry method; a physical
	// frame in it is a boundary-exit frame.
	PreflightMethod string
	// SuspendedSentinel is the name of the singleton a suspending
	// function returns while actually suspended. A physical frame
	// mentioning it means the coroutine's real frames continue below.
	SuspendedSentinel string
	// CreationSeparator is the class name of the artificial trace
	// element separating restored frames from the creation stack.
	CreationSeparator string
	// ContinuationSlot is the local/argument slot of a resume frame
	// that holds the continuation being resumed.
	ContinuationSlot string
}

// DefaultMarkers returns the markers of the Kotlin coroutine runtime.
func DefaultMarkers() Markers {
	return Markers{
		BaseContinuationClass: baseContinuationClass,
		CompletionField:       completionField,
		ResumeMethod:          resumeMethodName,
		PreflightMethod:       preflightMethodName,
		SuspendedSentinel:     suspendedSentinel,
		CreationSeparator:     creationSeparator,
		ContinuationSlot:      "this",
	}
}

// IsBaseContinuation is the structural predicate deciding whether a
// loaded class is part of the tracked library's suspended-frame
// representation.
func (m Markers) IsBaseContinuation(cls remote.ClassHandle) bool {
	if cls == nil {
		return false
	}
	return cls.Name() == m.BaseContinuationClass || cls.Inherits(m.BaseContinuationClass)
}

// IsResumeFrame reports whether loc is a boundary-entry frame.
func (m Markers) IsResumeFrame(loc remote.Location) bool {
	return loc.Method == m.ResumeMethod
}

// IsPreflightFrame reports whether loc is a boundary-exit frame.
func (m Markers) IsPreflightFrame(loc remote.Location) bool {
	return loc.Method == m.PreflightMethod
}

// IsSuspendedSentinel reports whether loc mentions the suspended
// singleton, meaning the coroutine is not actually suspended at this
// stack position.
func (m Markers) IsSuspendedSentinel(loc remote.Location) bool {
	return strings.Contains(loc.Method, m.SuspendedSentinel) ||
		strings.Contains(loc.DeclaringType, m.SuspendedSentinel)
}

// IsCreationSeparator reports whether a raw trace element with the
// given declaring class separates restored frames from creation
// frames.
func (m Markers) IsCreationSeparator(declaringType string) bool {
	return declaringType == m.CreationSeparator ||
		strings.HasPrefix(declaringType, m.CreationSeparator+".")
}

// Package remote defines the narrow protocol through which a halted
// target VM is inspected: read object fields, invoke methods, resolve
// loaded classes and line numbers. Implementations wrap a concrete
// debug transport; everything in this module goes through the Context
// interface and never touches the transport directly.
package remote

import (
	"errors"
	"strconv"
)

var (
	// ErrAbsentInformation is returned by ResolveLine when the target
	// has no line-number debug information for the requested class.
	ErrAbsentInformation = errors.New("absent debug information")
	// ErrClassNotLoaded is returned by FindLoadedClass when no loaded
	// class matches the requested name.
	ErrClassNotLoaded = errors.New("class not loaded")
	// ErrCollected is returned when a remote object handle refers to an
	// object that has been garbage collected by the target.
	ErrCollected = errors.New("object has been collected")
)

// Object is an opaque handle to an object on the target's heap. A
// handle is only valid while the target is halted at the suspend point
// it was obtained at; it must not be reused after the target resumes.
type Object interface {
	// UniqueID returns a target-assigned identifier for the object,
	// stable for the duration of the current suspend point.
	UniqueID() uint64
	// TypeName returns the name of the object's runtime class.
	TypeName() string
	// IsNull reports whether the handle represents the null reference.
	IsNull() bool
}

// ClassHandle is a handle to a class loaded in the target.
type ClassHandle interface {
	// Name returns the fully qualified class name.
	Name() string
	// Inherits reports whether the class extends or implements a type
	// with the given fully qualified name.
	Inherits(name string) bool
}

// Location is a source position in the target program. Generated
// locations carry a (type, method, line) triple that could not be
// matched against loaded debug information; consumers must treat both
// uniformly but may render them differently.
type Location struct {
	DeclaringType string
	Method        string
	Line          int
	Generated     bool
}

// String returns a human readable representation of the location.
func (l Location) String() string {
	if l.DeclaringType == "" && l.Method == "" {
		return "<unknown>"
	}
	s := l.DeclaringType + "." + l.Method
	if l.Line >= 0 {
		s += ":" + strconv.Itoa(l.Line)
	}
	if l.Generated {
		s += " (generated)"
	}
	return s
}

// Context gives access to a halted target process. All methods except
// RunOnCommandThread must be called from inside a function dispatched
// through RunOnCommandThread: the remote protocol allows a single
// command in flight per target and the Context owns that serialization.
//
// Every method may fail with a transport or target error; callers are
// expected to degrade to "no data" rather than propagate.
type Context interface {
	// ReadField reads an instance field. The result may be the null
	// reference (Object.IsNull).
	ReadField(obj Object, field string) (Object, error)
	// Invoke calls an instance method on the halted target and returns
	// its result, which may be the null reference.
	Invoke(obj Object, method string, args ...Object) (Object, error)
	// InvokeStatic calls a static method of cls.
	InvokeStatic(cls ClassHandle, method string, args ...Object) (Object, error)
	// FindLoadedClass resolves a class by fully qualified name against
	// the target's loaded-classes index.
	FindLoadedClass(name string) (ClassHandle, error)
	// ResolveLine maps a (class, method, line) triple to a location
	// using the class's line-number table. Fails with
	// ErrAbsentInformation when the class carries no line tables.
	ResolveLine(cls ClassHandle, method string, line int) (*Location, error)
	// FieldNames returns the names of obj's instance fields in
	// declaration order.
	FieldNames(obj Object) ([]string, error)
	// Elements mirrors a remote array or java.util.List as a slice of
	// handles.
	Elements(obj Object) ([]Object, error)
	// StringValue mirrors a remote string object.
	StringValue(obj Object) (string, error)
	// IntValue mirrors a remote integral value (or its boxed form).
	IntValue(obj Object) (int64, error)
	// BoolValue mirrors a remote boolean value (or its boxed form).
	BoolValue(obj Object) (bool, error)
	// RunOnCommandThread dispatches fn onto the target's single
	// command-processing thread and blocks until it returns. Calls
	// submitted while another is running queue, they never interleave.
	RunOnCommandThread(fn func() error) error
}

// Thread is a handle to a live thread of the halted target.
type Thread interface {
	// UniqueID returns a target-assigned thread identifier.
	UniqueID() uint64
	// Name returns the thread's name, if the target exposes one.
	Name() string
}

// PhysicalFrame is one live stack frame of a halted thread.
type PhysicalFrame interface {
	// Location returns the frame's current source position.
	Location() Location
	// Variable reads a named local variable or argument slot of the
	// frame. The result may be the null reference.
	Variable(name string) (Object, error)
}

// ThreadSnapshotProvider returns the physical stack of a live thread.
// Frames are ordered innermost first.
type ThreadSnapshotProvider interface {
	Frames(thread Thread) ([]PhysicalFrame, error)
}

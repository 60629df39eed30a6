package api

// Location is a source position in the target program.
type Location struct {
	// DeclaringType is the fully qualified name of the type owning the
	// method.
	DeclaringType string `json:"declaringType"`
	// Method is the method name.
	Method string `json:"method"`
	// Line is the source line, or a negative value when unknown.
	Line int `json:"line"`
	// Generated is true when the location is not backed by resolvable
	// source-line debug information. Clients should render generated
	// locations distinctly but otherwise treat them like any other.
	Generated bool `json:"generated,omitempty"`
}

// Variable is one captured value of a reconstructed frame.
type Variable struct {
	// Name is the display name of the spilled local.
	Name string `json:"name"`
	// TypeName is the runtime type of the captured value, and may be
	// empty for null references.
	TypeName string `json:"typeName,omitempty"`
}

// Frame is one reconstructed logical frame of a suspended coroutine.
type Frame struct {
	Location  Location   `json:"location"`
	Variables []Variable `json:"variables,omitempty"`
}

// CoroutineState is the lifecycle state reported by the target's
// instrumentation library.
type CoroutineState string

const (
	CoroutineCreated   CoroutineState = "CREATED"
	CoroutineRunning   CoroutineState = "RUNNING"
	CoroutineSuspended CoroutineState = "SUSPENDED"
	CoroutineUnknown   CoroutineState = "UNKNOWN"
)

// Coroutine is one tracked coroutine from an instrumentation snapshot.
type Coroutine struct {
	// Name is the coroutine's display name.
	Name string `json:"name"`
	// ID is the instrumentation library's creation sequence number.
	ID    int64          `json:"id"`
	State CoroutineState `json:"state"`
	// RestoredFrames are the coroutine's still-pending suspended
	// frames, innermost first.
	RestoredFrames []Frame `json:"restoredFrames"`
	// CreationFrames record where the coroutine was launched.
	CreationFrames []Frame `json:"creationFrames,omitempty"`
	// HasLastObservedThread is true when the target reported the
	// thread the coroutine last ran on.
	HasLastObservedThread bool `json:"hasLastObservedThread,omitempty"`
}

// MergedFrameKind discriminates merged stack entries.
type MergedFrameKind string

const (
	FramePhysical MergedFrameKind = "physical"
	FrameBoundary MergedFrameKind = "boundary"
	FrameLogical  MergedFrameKind = "logical"
)

// MergedFrame is one entry of a merged coroutine stack.
type MergedFrame struct {
	Kind      MergedFrameKind `json:"kind"`
	Location  Location        `json:"location"`
	Variables []Variable      `json:"variables,omitempty"`
}

// MergedStack is a single coherent stack for a thread halted inside
// coroutine-resumption machinery: the synthetic boundary frame, the
// reconstructed logical frames, then the unmodified physical frames,
// innermost first.
type MergedStack struct {
	Frames []MergedFrame `json:"frames"`
}

package coro

import (
	"fmt"
	"regexp"

	"github.com/coroview/coroview/pkg/remote"
)

// Continuation is a typed view over a remote object representing one
// suspended logical frame. Views are created per lookup and never
// cached: the underlying handle dies when the target resumes.
type Continuation struct {
	ref remote.Object
	t   *Target
}

// Object returns the underlying remote handle.
func (c *Continuation) Object() remote.Object {
	return c.ref
}

// IsBase reports whether the remote object is recognized as part of
// the tracked concurrency library's suspended-frame representation. An
// arbitrary completion target (a dispatcher task, a future, user code)
// is not a base continuation and terminates the chain.
func (c *Continuation) IsBase() bool {
	if c == nil || c.ref == nil || c.ref.IsNull() {
		return false
	}
	cls, err := c.t.classes.find(c.t.ctx, c.ref.TypeName())
	if err != nil {
		return false
	}
	return c.t.markers.IsBaseContinuation(cls)
}

// Completion returns the continuation this one resumes into, or nil
// when the completion field is absent or null.
func (c *Continuation) Completion() (*Continuation, error) {
	next, err := c.t.ctx.ReadField(c.ref, c.t.markers.CompletionField)
	if err != nil {
		return nil, err
	}
	if next == nil || next.IsNull() {
		return nil, nil
	}
	return &Continuation{ref: next, t: c.t}, nil
}

// Label returns the captured state label of the suspended frame, the
// value the state machine dispatches on when resumed.
func (c *Continuation) Label() (int64, error) {
	v, err := c.t.ctx.ReadField(c.ref, labelField)
	if err != nil {
		return 0, err
	}
	if v == nil || v.IsNull() {
		return 0, fmt.Errorf("continuation %#x has no label", c.ref.UniqueID())
	}
	return c.t.ctx.IntValue(v)
}

// traceElement asks the continuation for the stack trace element
// describing its captured program location. A null result means the
// frame carries no debug metadata.
func (c *Continuation) traceElement() (remote.Object, error) {
	elem, err := c.t.ctx.Invoke(c.ref, traceElementGet)
	if err != nil {
		return nil, err
	}
	if elem == nil || elem.IsNull() {
		return nil, nil
	}
	return elem, nil
}

// Compiled state machines spill live locals into fields named after
// their slot kind: L$0, L$1 for references, I$0, J$0 and so on for
// primitives.
var spilledFieldRe = regexp.MustCompile(`^[A-Z]\$\d+$`)

// SpilledVariables returns the locals captured into the continuation
// at the suspension point, in field declaration order. Errors reading
// a single field drop that field only.
func (c *Continuation) SpilledVariables() []Variable {
	names, err := c.t.ctx.FieldNames(c.ref)
	if err != nil {
		c.t.chainLog.Debugf("cannot list fields of %#x: %v", c.ref.UniqueID(), err)
		return nil
	}
	var vars []Variable
	for _, name := range names {
		if !spilledFieldRe.MatchString(name) {
			continue
		}
		v, err := c.t.ctx.ReadField(c.ref, name)
		if err != nil {
			c.t.chainLog.Debugf("cannot read spilled %s of %#x: %v", name, c.ref.UniqueID(), err)
			continue
		}
		vars = append(vars, Variable{Name: name, Ref: v})
	}
	return vars
}

package coro

import (
	"github.com/coroview/coroview/pkg/remote"
)

// rawElement is the (class, method, line) triple carried by a remote
// stack trace element before resolution against debug information.
type rawElement struct {
	declaringType string
	method        string
	line          int
}

// Field names of java.lang.StackTraceElement.
const (
	elemDeclaringClass = "declaringClass"
	elemMethodName     = "methodName"
	elemLineNumber     = "lineNumber"
)

// readTraceElement mirrors a remote stack trace element.
func (t *Target) readTraceElement(elem remote.Object) (rawElement, error) {
	var raw rawElement

	cls, err := t.ctx.ReadField(elem, elemDeclaringClass)
	if err != nil {
		return raw, err
	}
	if cls != nil && !cls.IsNull() {
		raw.declaringType, err = t.ctx.StringValue(cls)
		if err != nil {
			return raw, err
		}
	}

	mth, err := t.ctx.ReadField(elem, elemMethodName)
	if err != nil {
		return raw, err
	}
	if mth != nil && !mth.IsNull() {
		raw.method, err = t.ctx.StringValue(mth)
		if err != nil {
			return raw, err
		}
	}

	lineVar, err := t.ctx.ReadField(elem, elemLineNumber)
	if err != nil {
		return raw, err
	}
	raw.line = -1
	if lineVar != nil && !lineVar.IsNull() {
		n, err := t.ctx.IntValue(lineVar)
		if err != nil {
			return raw, err
		}
		raw.line = int(n)
	}
	return raw, nil
}

// resolveLocation turns a raw (class, method, line) triple into a
// location. Resolution asks the loaded-classes index for the type and
// its line table for a position owned by the named method; any lookup
// failure degrades to a generated location carrying the same triple.
// This never fails: the generated location is the designed degraded
// mode, not an error path.
func (t *Target) resolveLocation(raw rawElement) remote.Location {
	generated := remote.Location{
		DeclaringType: raw.declaringType,
		Method:        raw.method,
		Line:          raw.line,
		Generated:     true,
	}
	cls, err := t.classes.find(t.ctx, raw.declaringType)
	if err != nil || cls == nil {
		return generated
	}
	if raw.line < 0 {
		return generated
	}
	loc, err := t.ctx.ResolveLine(cls, raw.method, raw.line)
	if err != nil || loc == nil {
		return generated
	}
	return *loc
}

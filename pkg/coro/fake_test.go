package coro_test

// A scripted in-memory target implementing the remote protocol. Tests
// build an object graph by hand and point the reconstruction engine at
// it; every remote access is served from the graph and counts against
// the command-thread invariant.

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coroview/coroview/pkg/remote"
)

type fakeObject struct {
	id     uint64
	typ    string
	null   bool
	fields map[string]*fakeObject
	order  []string
	// invoke results by method name
	methods map[string]*fakeObject
	// mirrored primitive values
	strVal  string
	isStr   bool
	intVal  int64
	isInt   bool
	boolVal bool
	isBool  bool
	elems   []*fakeObject
	isList  bool
}

func (o *fakeObject) UniqueID() uint64 { return o.id }
func (o *fakeObject) TypeName() string { return o.typ }
func (o *fakeObject) IsNull() bool     { return o == nil || o.null }

func (o *fakeObject) setField(name string, v *fakeObject) *fakeObject {
	if o.fields == nil {
		o.fields = make(map[string]*fakeObject)
	}
	if _, ok := o.fields[name]; !ok {
		o.order = append(o.order, name)
	}
	o.fields[name] = v
	return o
}

func (o *fakeObject) setMethod(name string, v *fakeObject) *fakeObject {
	if o.methods == nil {
		o.methods = make(map[string]*fakeObject)
	}
	o.methods[name] = v
	return o
}

type fakeClass struct {
	name   string
	supers map[string]bool
}

func (c *fakeClass) Name() string { return c.name }
func (c *fakeClass) Inherits(name string) bool {
	return c.supers[name]
}

type fakeContext struct {
	mu      sync.Mutex
	classes map[string]*fakeClass
	// static invoke results: class name -> method -> result
	statics map[string]map[string]*fakeObject
	// classes whose line tables are missing
	noLineTable map[string]bool
	// errors injected per operation name
	failOn map[string]error

	// on is true while a command-thread job runs; offThread counts
	// remote accesses made outside one.
	on        bool
	offThread int
	commands  int
	// classLookups counts FindLoadedClass calls that reach the target.
	classLookups int

	nextID uint64
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		classes:     make(map[string]*fakeClass),
		statics:     make(map[string]map[string]*fakeObject),
		noLineTable: make(map[string]bool),
		failOn:      make(map[string]error),
	}
}

func (c *fakeContext) obj(typ string) *fakeObject {
	c.nextID++
	return &fakeObject{id: c.nextID, typ: typ}
}

func (c *fakeContext) strObj(s string) *fakeObject {
	o := c.obj("java.lang.String")
	o.strVal, o.isStr = s, true
	return o
}

func (c *fakeContext) intObj(n int64) *fakeObject {
	o := c.obj("java.lang.Integer")
	o.intVal, o.isInt = n, true
	return o
}

func (c *fakeContext) boolObj(b bool) *fakeObject {
	o := c.obj("java.lang.Boolean")
	o.boolVal, o.isBool = b, true
	return o
}

func (c *fakeContext) listObj(elems ...*fakeObject) *fakeObject {
	o := c.obj("java.util.ArrayList")
	o.elems, o.isList = elems, true
	return o
}

func (c *fakeContext) nullObj() *fakeObject {
	c.nextID++
	return &fakeObject{id: c.nextID, null: true}
}

// addClass registers a loaded class with the given supertypes.
func (c *fakeContext) addClass(name string, supers ...string) *fakeClass {
	cls := &fakeClass{name: name, supers: make(map[string]bool)}
	for _, s := range supers {
		cls.supers[s] = true
	}
	c.classes[name] = cls
	return cls
}

func (c *fakeContext) addStatic(cls, method string, result *fakeObject) {
	if c.statics[cls] == nil {
		c.statics[cls] = make(map[string]*fakeObject)
	}
	c.statics[cls][method] = result
}

// traceElement builds a java.lang.StackTraceElement mirror.
func (c *fakeContext) traceElement(declaringType, method string, line int) *fakeObject {
	elem := c.obj("java.lang.StackTraceElement")
	elem.setField("declaringClass", c.strObj(declaringType))
	elem.setField("methodName", c.strObj(method))
	elem.setField("lineNumber", c.intObj(int64(line)))
	return elem
}

func (c *fakeContext) remoteAccess(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.on {
		c.offThread++
	}
	if err, ok := c.failOn[op]; ok {
		return err
	}
	return nil
}

var errFakeNotObject = errors.New("not a fake object")

func asFake(obj remote.Object) (*fakeObject, error) {
	if obj == nil {
		return nil, errFakeNotObject
	}
	o, ok := obj.(*fakeObject)
	if !ok {
		return nil, errFakeNotObject
	}
	return o, nil
}

func (c *fakeContext) ReadField(obj remote.Object, field string) (remote.Object, error) {
	if err := c.remoteAccess("ReadField"); err != nil {
		return nil, err
	}
	o, err := asFake(obj)
	if err != nil {
		return nil, err
	}
	v, ok := o.fields[field]
	if !ok {
		return nil, fmt.Errorf("no field %q on %s", field, o.typ)
	}
	return v, nil
}

func (c *fakeContext) Invoke(obj remote.Object, method string, args ...remote.Object) (remote.Object, error) {
	if err := c.remoteAccess("Invoke"); err != nil {
		return nil, err
	}
	o, err := asFake(obj)
	if err != nil {
		return nil, err
	}
	v, ok := o.methods[method]
	if !ok {
		return nil, fmt.Errorf("no method %q on %s", method, o.typ)
	}
	return v, nil
}

func (c *fakeContext) InvokeStatic(cls remote.ClassHandle, method string, args ...remote.Object) (remote.Object, error) {
	if err := c.remoteAccess("InvokeStatic"); err != nil {
		return nil, err
	}
	m := c.statics[cls.Name()]
	v, ok := m[method]
	if !ok {
		return nil, fmt.Errorf("no static method %q on %s", method, cls.Name())
	}
	return v, nil
}

func (c *fakeContext) FindLoadedClass(name string) (remote.ClassHandle, error) {
	if err := c.remoteAccess("FindLoadedClass"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.classLookups++
	c.mu.Unlock()
	cls, ok := c.classes[name]
	if !ok {
		return nil, remote.ErrClassNotLoaded
	}
	return cls, nil
}

func (c *fakeContext) ResolveLine(cls remote.ClassHandle, method string, line int) (*remote.Location, error) {
	if err := c.remoteAccess("ResolveLine"); err != nil {
		return nil, err
	}
	if c.noLineTable[cls.Name()] {
		return nil, remote.ErrAbsentInformation
	}
	return &remote.Location{DeclaringType: cls.Name(), Method: method, Line: line}, nil
}

func (c *fakeContext) FieldNames(obj remote.Object) ([]string, error) {
	if err := c.remoteAccess("FieldNames"); err != nil {
		return nil, err
	}
	o, err := asFake(obj)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), o.order...), nil
}

func (c *fakeContext) Elements(obj remote.Object) ([]remote.Object, error) {
	if err := c.remoteAccess("Elements"); err != nil {
		return nil, err
	}
	o, err := asFake(obj)
	if err != nil {
		return nil, err
	}
	if !o.isList {
		return nil, fmt.Errorf("%s is not a list", o.typ)
	}
	out := make([]remote.Object, len(o.elems))
	for i := range o.elems {
		out[i] = o.elems[i]
	}
	return out, nil
}

func (c *fakeContext) StringValue(obj remote.Object) (string, error) {
	if err := c.remoteAccess("StringValue"); err != nil {
		return "", err
	}
	o, err := asFake(obj)
	if err != nil {
		return "", err
	}
	if !o.isStr {
		return "", fmt.Errorf("%s is not a string", o.typ)
	}
	return o.strVal, nil
}

func (c *fakeContext) IntValue(obj remote.Object) (int64, error) {
	if err := c.remoteAccess("IntValue"); err != nil {
		return 0, err
	}
	o, err := asFake(obj)
	if err != nil {
		return 0, err
	}
	if !o.isInt {
		return 0, fmt.Errorf("%s is not an int", o.typ)
	}
	return o.intVal, nil
}

func (c *fakeContext) BoolValue(obj remote.Object) (bool, error) {
	if err := c.remoteAccess("BoolValue"); err != nil {
		return false, err
	}
	o, err := asFake(obj)
	if err != nil {
		return false, err
	}
	if !o.isBool {
		return false, fmt.Errorf("%s is not a bool", o.typ)
	}
	return o.boolVal, nil
}

func (c *fakeContext) RunOnCommandThread(fn func() error) error {
	c.mu.Lock()
	c.on = true
	c.commands++
	c.mu.Unlock()
	err := fn()
	c.mu.Lock()
	c.on = false
	c.mu.Unlock()
	return err
}

// fakeFrame is a scripted physical frame.
type fakeFrame struct {
	loc  remote.Location
	vars map[string]*fakeObject
}

func (f *fakeFrame) Location() remote.Location { return f.loc }

func (f *fakeFrame) Variable(name string) (remote.Object, error) {
	v, ok := f.vars[name]
	if !ok {
		return nil, fmt.Errorf("no slot %q", name)
	}
	return v, nil
}

type fakeThread struct {
	id   uint64
	name string
}

func (t *fakeThread) UniqueID() uint64 { return t.id }
func (t *fakeThread) Name() string     { return t.name }

type fakeSnapshotProvider struct {
	threads map[uint64][]remote.PhysicalFrame
	err     error
}

func (p *fakeSnapshotProvider) Frames(thread remote.Thread) ([]remote.PhysicalFrame, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.threads[thread.UniqueID()], nil
}

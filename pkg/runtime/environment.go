package runtime

import (
	"sort"
)

// Frame holds the variables of one function activation. The bottom frame of
// a CallStack holds globals.
type Frame struct {
	name   string
	values map[string]Value
}

// NewFrame creates an empty frame.
func NewFrame(name string) *Frame {
	return &Frame{name: name, values: make(map[string]Value)}
}

// Name is the function the frame belongs to ("<global>" for the bottom frame).
func (f *Frame) Name() string {
	return f.name
}

// Define inserts or replaces a binding in this frame.
func (f *Frame) Define(name string, value Value) {
	f.values[name] = value
}

// Get reads a binding from this frame only.
func (f *Frame) Get(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Has reports whether name is bound in this frame.
func (f *Frame) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Snapshot returns a copy of the current bindings.
func (f *Frame) Snapshot() map[string]Value {
	out := make(map[string]Value, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Restore replaces every binding with a copy of values.
func (f *Frame) Restore(values map[string]Value) {
	f.values = make(map[string]Value, len(values))
	for k, v := range values {
		f.values[k] = v
	}
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (f *Frame) Keys() []string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GlobalFrameName names the bottom frame of every CallStack.
const GlobalFrameName = "<global>"

// CallStack is a stack of frames. Name resolution looks in the current frame
// and then the global frame; there is no access to intermediate callers.
type CallStack struct {
	frames []*Frame
}

// NewCallStack returns a stack holding only the global frame.
func NewCallStack() *CallStack {
	return &CallStack{frames: []*Frame{NewFrame(GlobalFrameName)}}
}

func (s *CallStack) Global() *Frame {
	return s.frames[0]
}

func (s *CallStack) Current() *Frame {
	return s.frames[len(s.frames)-1]
}

// Depth is the number of active calls, not counting the global frame.
func (s *CallStack) Depth() int {
	return len(s.frames) - 1
}

// Push enters a new activation.
func (s *CallStack) Push(name string) *Frame {
	frame := NewFrame(name)
	s.frames = append(s.frames, frame)
	return frame
}

// Pop leaves the current activation. The global frame is never popped.
func (s *CallStack) Pop() *Frame {
	if len(s.frames) == 1 {
		return s.frames[0]
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Resolve finds the frame that binds name.
func (s *CallStack) Resolve(name string) (*Frame, bool) {
	if cur := s.Current(); cur.Has(name) {
		return cur, true
	}
	if g := s.Global(); g.Has(name) {
		return g, true
	}
	return nil, false
}

// Get reads name; unbound names read as zero.
func (s *CallStack) Get(name string) Value {
	if frame, ok := s.Resolve(name); ok {
		v, _ := frame.Get(name)
		return v
	}
	return Number(0)
}

// Define binds name in the current frame, shadowing any global.
func (s *CallStack) Define(name string, value Value) {
	s.Current().Define(name, value)
}

// Assign updates the frame that already binds name, or defines it in the
// current frame when no frame does. Callers that need call isolation restore
// the global frame afterwards.
func (s *CallStack) Assign(name string, value Value) *Frame {
	frame, ok := s.Resolve(name)
	if !ok {
		frame = s.Current()
	}
	frame.Define(name, value)
	return frame
}

package internal

// CondMode says whether content lines in a conditional section are passed
// through to output or suppressed.
type CondMode int

// Conditional mode constants
const (
	ModeEmit CondMode = iota
	ModeSkip
)

// Conditional mode names for debugging
const (
	condModeNameEmit = "EMIT"
	condModeNameSkip = "SKIP"
)

// String returns the string representation of the mode
func (m CondMode) String() string {
	if m == ModeSkip {
		return condModeNameSkip
	}
	return condModeNameEmit
}

// Frame is one level of nested conditional state.
type Frame struct {
	Mode       CondMode
	HasEmitted bool
	HasElse    bool
}

// CondStack is the stack of conditional frames for a single file. It always
// holds an implicit root frame in EMIT mode; the root frame cannot be popped.
type CondStack struct {
	frames []Frame
}

// NewCondStack creates a stack holding only the root frame.
func NewCondStack() *CondStack {
	return &CondStack{
		frames: []Frame{{Mode: ModeEmit}},
	}
}

// Depth returns the number of frames, root included.
func (s *CondStack) Depth() int {
	return len(s.frames)
}

// AtRoot reports whether only the root frame remains.
func (s *CondStack) AtRoot() bool {
	return len(s.frames) == 1
}

// Top returns a pointer to the frame on top of the stack.
func (s *CondStack) Top() *Frame {
	return &s.frames[len(s.frames)-1]
}

// Skipping reports whether the top frame suppresses content lines.
func (s *CondStack) Skipping() bool {
	return s.Top().Mode == ModeSkip
}

// ParentSkipping reports whether the frame beneath the top is in SKIP mode.
// With only the root frame above the top this is always false.
func (s *CondStack) ParentSkipping() bool {
	if len(s.frames) < 2 {
		return false
	}
	return s.frames[len(s.frames)-2].Mode == ModeSkip
}

// Push adds a frame for an opening conditional directive.
func (s *CondStack) Push(f Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes the top frame for an #endif. It refuses to pop the root frame
// and reports whether the pop happened.
func (s *CondStack) Pop() bool {
	if len(s.frames) <= 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

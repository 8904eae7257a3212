package engine

import (
	"github.com/wippyai/jvm-runtime/errors"
)

// DefaultMaxDepth bounds the call stack when no depth is configured.
const DefaultMaxDepth = 1024

// Thread is the call stack of one thread of execution. Frames are owned
// by the stack and the current frame is the last one.
type Thread struct {
	frames   []*Frame
	maxDepth int
}

// NewThread returns an empty call stack that holds at most maxDepth
// frames. A non-positive maxDepth selects DefaultMaxDepth.
func NewThread(maxDepth int) *Thread {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Thread{maxDepth: maxDepth}
}

// PushFrame makes f the current frame.
func (t *Thread) PushFrame(f *Frame) error {
	if len(t.frames) >= t.maxDepth {
		return errors.StackOverflow("call stack", t.maxDepth)
	}
	t.frames = append(t.frames, f)
	return nil
}

// PopFrame removes and returns the current frame.
func (t *Thread) PopFrame() (*Frame, error) {
	n := len(t.frames)
	if n == 0 {
		return nil, errors.StackUnderflow("call stack")
	}
	f := t.frames[n-1]
	t.frames[n-1] = nil
	t.frames = t.frames[:n-1]
	return f, nil
}

// CurrentFrame returns the last pushed frame.
func (t *Thread) CurrentFrame() (*Frame, bool) {
	if len(t.frames) == 0 {
		return nil, false
	}
	return t.frames[len(t.frames)-1], true
}

// Depth returns the number of frames on the stack.
func (t *Thread) Depth() int { return len(t.frames) }

// MaxDepth returns the configured bound.
func (t *Thread) MaxDepth() int { return t.maxDepth }

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondStack_RootFrame(t *testing.T) {
	s := NewCondStack()

	assert.Equal(t, 1, s.Depth())
	assert.True(t, s.AtRoot())
	assert.False(t, s.Skipping())
	assert.False(t, s.ParentSkipping())
}

func TestCondStack_PushPop(t *testing.T) {
	s := NewCondStack()

	s.Push(Frame{Mode: ModeSkip})
	assert.Equal(t, 2, s.Depth())
	assert.False(t, s.AtRoot())
	assert.True(t, s.Skipping())
	assert.False(t, s.ParentSkipping())

	s.Push(Frame{Mode: ModeEmit, HasEmitted: true})
	assert.Equal(t, 3, s.Depth())
	assert.False(t, s.Skipping())
	assert.True(t, s.ParentSkipping())

	assert.True(t, s.Pop())
	assert.True(t, s.Pop())
	assert.True(t, s.AtRoot())
}

func TestCondStack_PopRefusesRoot(t *testing.T) {
	s := NewCondStack()

	assert.False(t, s.Pop())
	assert.Equal(t, 1, s.Depth())
}

func TestCondStack_TopIsMutable(t *testing.T) {
	s := NewCondStack()
	s.Push(Frame{Mode: ModeSkip})

	top := s.Top()
	*top = Frame{Mode: ModeEmit, HasEmitted: true, HasElse: true}

	assert.False(t, s.Skipping())
	assert.True(t, s.Top().HasEmitted)
	assert.True(t, s.Top().HasElse)
}

func TestCondMode_String(t *testing.T) {
	assert.Equal(t, "EMIT", ModeEmit.String())
	assert.Equal(t, "SKIP", ModeSkip.String())
}

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	s := NewStack[int]()
	assert.True(t, s.IsEmpty())

	_, ok := s.Pop()
	assert.False(t, ok)
	_, ok = s.Peek()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(t, 3, s.Len())

	top, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 3, top)

	top, ok = s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 3, top)
	assert.Equal(t, []int{1, 2}, s.Entries())

	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Entries())
}

package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingSinkKeepsOrder(t *testing.T) {
	s := NewRingSink(3)
	s.Emit(context.Background(), Event{Type: "a"})
	s.Emit(context.Background(), Event{Type: "b"})

	got := s.Recent()
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Type)
	assert.Equal(t, "b", got[1].Type)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestRingSinkEvictsOldest(t *testing.T) {
	s := NewRingSink(3)
	for _, typ := range []string{"a", "b", "c", "d", "e"} {
		s.Emit(context.Background(), Event{Type: typ})
	}

	got := s.Recent()
	assert.Len(t, got, 3)
	assert.Equal(t, "c", got[0].Type)
	assert.Equal(t, "e", got[2].Type)
}

func TestRingSinkClear(t *testing.T) {
	s := NewRingSink(3)
	s.Emit(context.Background(), Event{Type: "a"})
	s.Emit(context.Background(), Event{Type: "b"})

	s.Clear()
	assert.Empty(t, s.Recent())

	s.Emit(context.Background(), Event{Type: "c"})
	assert.Len(t, s.Recent(), 1)
}

func TestMultiFansOut(t *testing.T) {
	a := NewRingSink(2)
	b := NewRingSink(2)
	m := Multi{a, b, Noop{}}

	m.Emit(context.Background(), Event{Type: "x"})
	assert.Len(t, a.Recent(), 1)
	assert.Len(t, b.Recent(), 1)
}

package eventlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/autozoom/internal/geometry"
)

func TestPositionAtBeforeFirstEvent(t *testing.T) {
	s := New([]MouseEvent{{Kind: Move, Position: geometry.Vec2{X: 0.5, Y: 0.5}, T: 1}}, nil, 5)
	_, ok := s.PositionAt(0.5)
	assert.False(t, ok)
}

func TestPositionAtMostRecent(t *testing.T) {
	s := New([]MouseEvent{
		{Kind: Move, Position: geometry.Vec2{X: 0.1, Y: 0.1}, T: 1},
		{Kind: Move, Position: geometry.Vec2{X: 0.2, Y: 0.2}, T: 2},
	}, nil, 5)
	p, ok := s.PositionAt(2.5)
	require.True(t, ok)
	assert.Equal(t, geometry.Vec2{X: 0.2, Y: 0.2}, p)
}

func TestClicksFiltersMoves(t *testing.T) {
	s := New([]MouseEvent{
		{Kind: Move, Position: geometry.Vec2{X: 0.1, Y: 0.1}, T: 1},
		{Kind: LeftClick, Position: geometry.Vec2{X: 0.2, Y: 0.2}, T: 2},
	}, nil, 5)
	assert.Len(t, s.Clicks(), 1)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	s := New([]MouseEvent{{Kind: Move, Position: geometry.Vec2{X: 1.5, Y: 0.2}, T: 1}}, nil, 5)
	require.Error(t, s.Validate())
}

func TestValidateRejectsPastDuration(t *testing.T) {
	s := New([]MouseEvent{{Kind: Move, Position: geometry.Vec2{X: 0.5, Y: 0.5}, T: 11}}, nil, 5)
	require.Error(t, s.Validate())
}

func TestClampedFixesOutOfRange(t *testing.T) {
	s := New([]MouseEvent{{Kind: Move, Position: geometry.Vec2{X: 1.5, Y: -0.2}, T: 1}}, nil, 5)
	c := s.Clamped()
	require.NoError(t, c.Validate())
	assert.Equal(t, geometry.Vec2{X: 1, Y: 0}, c.Mouse[0].Position)
}

func TestRecordRoundTrip(t *testing.T) {
	s := New([]MouseEvent{
		{Kind: LeftClick, Position: geometry.Vec2{X: 0.3, Y: 0.4}, T: 1},
		{Kind: Move, Position: geometry.Vec2{X: 0.5, Y: 0.5}, T: 2},
	}, []KeyboardEvent{{Kind: KeyDown, T: 1.5, KeyCode: 65}}, 10)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))

	got, err := Read(&buf, 10)
	require.NoError(t, err)
	require.Len(t, got.Mouse, 2)
	require.Len(t, got.Keyboard, 1)
	assert.Equal(t, LeftClick, got.Mouse[0].Kind)
	assert.InDelta(t, 0.3, got.Mouse[0].Position.X, 1e-9)
	assert.Equal(t, uint16(65), got.Keyboard[0].KeyCode)
}

func TestLastKeyboardBefore(t *testing.T) {
	s := New(nil, []KeyboardEvent{{Kind: KeyDown, T: 1}, {Kind: KeyUp, T: 2}}, 5)
	e, ok := s.LastKeyboardBefore(1.5)
	require.True(t, ok)
	assert.Equal(t, KeyDown, e.Kind)
}

package frame

import (
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/field"
)

func TestRunInvokesInRequestOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	q.RequestFrame(func() { got = append(got, 1) })
	q.RequestFrame(func() { got = append(got, 2) })
	q.RequestFrame(func() { got = append(got, 3) })

	assert.Equal(t, 3, q.Run())
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Zero(t, q.Pending())
}

func TestCancelledRequestDoesNotRun(t *testing.T) {
	q := NewQueue()
	ran := false
	id := q.RequestFrame(func() { ran = true })
	q.CancelFrame(id)
	q.CancelFrame(id)
	q.CancelFrame(999)

	assert.Zero(t, q.Run())
	assert.False(t, ran)
}

func TestRequestDuringRunWaitsForNextRun(t *testing.T) {
	q := NewQueue()
	count := 0
	var loop func()
	loop = func() {
		count++
		q.RequestFrame(loop)
	}
	q.RequestFrame(loop)

	for i := 1; i <= 5; i++ {
		assert.Equal(t, 1, q.Run())
		assert.Equal(t, i, count)
		assert.Equal(t, 1, q.Pending())
	}
}

func TestIDsAreNonZeroAndUnique(t *testing.T) {
	q := NewQueue()
	seen := map[field.FrameID]bool{}
	for i := 0; i < 100; i++ {
		id := q.RequestFrame(func() {})
		require.NotZero(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}

type nullSurface struct{}

func (nullSurface) SetSize(int, int)                                  {}
func (nullSurface) Clear()                                            {}
func (nullSurface) FillCircle(float64, float64, float64, color.Color) {}

func (nullSurface) StrokeLine(float64, float64, float64, float64, float64, color.Color) {}

type viewport struct{ w, h int }

func (v viewport) Size() (int, int) { return v.w, v.h }

func TestFieldRebuildsKeepOneLoop(t *testing.T) {
	q := NewQueue()
	f := field.New(field.Host{Surface: nullSurface{}, Viewport: viewport{1280, 720}, Frames: q},
		config.DefaultParticles(), rand.New(rand.NewPCG(3, 4)), nil)
	require.NotNil(t, f)

	for i := 0; i < 8; i++ {
		f.Init()
		assert.Equal(t, 1, q.Pending())
	}
	for i := 0; i < 30; i++ {
		assert.Equal(t, 1, q.Run())
	}
	assert.Equal(t, 1, q.Pending())
}

package mimica

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSmoother_InitialState(t *testing.T) {
	t0 := time.Unix(1000, 0)
	s := NewSmoother(DefaultSmoothInterval, t0)

	assert.Equal(t, State{Label: Neutral, Confidence: 0, Changed: t0}, s.State())
}

func TestSmoother_CommitsAfterInterval(t *testing.T) {
	t0 := time.Unix(1000, 0)
	s := NewSmoother(DefaultSmoothInterval, t0)
	happy := Result{Label: Feliz, Confidence: 0.4}

	st := s.Observe(happy, t0.Add(100*time.Millisecond))
	assert.Equal(t, Neutral, st.Label)

	// The interval is exclusive.
	st = s.Observe(happy, t0.Add(DefaultSmoothInterval))
	assert.Equal(t, Neutral, st.Label)

	t1 := t0.Add(DefaultSmoothInterval + time.Millisecond)
	st = s.Observe(happy, t1)
	assert.Equal(t, State{Label: Feliz, Confidence: 0.4, Changed: t1}, st)

	st = s.Observe(Result{Label: Triste, Confidence: 0.6}, t1.Add(200*time.Millisecond))
	assert.Equal(t, Feliz, st.Label)
	assert.Equal(t, st, s.State())
}

func TestSmoother_RepeatedLabelRefreshesTimestamp(t *testing.T) {
	t0 := time.Unix(0, 0)
	s := NewSmoother(DefaultSmoothInterval, t0)

	t1 := t0.Add(time.Second)
	s.Observe(Result{Label: Neutral, Confidence: 0.5}, t1)
	assert.Equal(t, t1, s.State().Changed)
	assert.Equal(t, 0.5, s.State().Confidence)
}

func TestSmoother_Lost(t *testing.T) {
	t0 := time.Unix(0, 0)
	s := NewSmoother(DefaultSmoothInterval, t0)
	t1 := t0.Add(time.Second)
	s.Observe(Result{Label: Enojado, Confidence: 0.7}, t1)

	st := s.Lost()
	assert.Equal(t, Neutral, st.Label)
	assert.Zero(t, st.Confidence)
	assert.Equal(t, t1, st.Changed)

	// The next commit is still measured from the last committed change.
	st = s.Observe(Result{Label: Feliz, Confidence: 0.3}, t1.Add(300*time.Millisecond))
	assert.Equal(t, Neutral, st.Label)
}

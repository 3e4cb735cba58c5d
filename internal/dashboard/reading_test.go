package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReading(t *testing.T) {
	r := Reading(150, 300, 2)

	assert.Equal(t, 50, r.Percent)
	assert.Equal(t, 150, r.RemainingPages)
	assert.Equal(t, 300, r.MinutesRemaining)
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0, ProgressPercent(10, 0))
	assert.Equal(t, 0, ProgressPercent(10, -5))
	assert.Equal(t, 33, ProgressPercent(1, 3))
	assert.Equal(t, 67, ProgressPercent(2, 3))
	assert.Equal(t, 100, ProgressPercent(350, 300))
}

func TestRemainingPages(t *testing.T) {
	assert.Equal(t, 0, RemainingPages(320, 300))
	assert.Equal(t, 300, RemainingPages(0, 300))
}

func TestReading_DefaultPace(t *testing.T) {
	assert.Equal(t, 20, Reading(90, 100, 0).MinutesRemaining)
	assert.Equal(t, 30, Reading(90, 100, 3).MinutesRemaining)
}

func TestPagesDelta(t *testing.T) {
	delta, err := PagesDelta(150, 180, 300)
	assert.NoError(t, err)
	assert.Equal(t, 30, delta)

	delta, err = PagesDelta(150, 150, 300)
	assert.NoError(t, err)
	assert.Zero(t, delta)

	_, err = PagesDelta(150, 100, 300)
	assert.ErrorIs(t, err, ErrPageBackwards)

	_, err = PagesDelta(150, 310, 300)
	assert.ErrorIs(t, err, ErrPageBeyondEnd)
}

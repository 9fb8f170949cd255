package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(5, 5))
}

func TestSummaryCountsLateAsAttended(t *testing.T) {
	var s Summary
	s.Add(StatusPresent, 6)
	s.Add(StatusLate, 2)
	s.Add(StatusAbsent, 1)
	s.Add(StatusLeave, 1)
	s.Finish()

	assert.Equal(t, int64(10), s.Total)
	assert.Equal(t, int64(8), s.Attended())
	assert.Equal(t, 80, s.Percentage)
}

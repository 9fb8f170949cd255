package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeOf(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{95, "A+"}, {90, "A+"}, {89.99, "A"}, {75, "B"}, {60, "C"}, {55, "D"}, {40, "E"}, {39.5, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeOf(tt.pct), "pct %.2f", tt.pct)
	}
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 66.67, PercentOf(2, 3))
	assert.Equal(t, 0.0, PercentOf(10, 0))
}

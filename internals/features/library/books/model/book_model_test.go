package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetTotalCopies(t *testing.T) {
	b := BookModel{BookTotalCopies: 5, BookAvailable: 2}

	assert.False(t, b.SetTotalCopies(2), "three copies are out")
	assert.Equal(t, 5, b.BookTotalCopies)

	assert.True(t, b.SetTotalCopies(3))
	assert.Equal(t, 0, b.BookAvailable)
	assert.Equal(t, BookStatusUnavailable, b.BookStatus)

	assert.True(t, b.SetTotalCopies(8))
	assert.Equal(t, 5, b.BookAvailable)
	assert.Equal(t, 3, b.Issued())
	assert.Equal(t, BookStatusAvailable, b.BookStatus)
}

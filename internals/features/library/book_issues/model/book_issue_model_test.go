package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestOverdueAndFine(t *testing.T) {
	issued := BookIssueModel{
		BookIssueStatus:  IssueStatusIssued,
		BookIssueDueDate: day("2024-03-10"),
	}
	assert.False(t, issued.IsOverdue(day("2024-03-10")))
	assert.Equal(t, 0, issued.DaysOverdue(day("2024-03-10")))

	assert.True(t, issued.IsOverdue(day("2024-03-14")))
	assert.Equal(t, 4, issued.DaysOverdue(day("2024-03-14")))
	assert.Equal(t, int64(20), issued.FineEstimate(day("2024-03-14"), 5))

	ret := day("2024-03-12")
	returned := BookIssueModel{
		BookIssueStatus:     IssueStatusReturned,
		BookIssueDueDate:    day("2024-03-10"),
		BookIssueReturnDate: &ret,
		BookIssueFine:       10,
	}
	assert.False(t, returned.IsOverdue(day("2024-04-01")))
	assert.Equal(t, 2, returned.DaysOverdue(day("2024-04-01")))
	assert.Equal(t, int64(10), returned.FineEstimate(day("2024-04-01"), 5))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeCollectionDueAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		fee        FeeCollectionModel
		wantDue    int64
		wantStatus FeeStatus
	}{
		{
			name:       "untouched",
			fee:        FeeCollectionModel{FeeCollectionAmount: 500},
			wantDue:    500,
			wantStatus: FeeStatusUnpaid,
		},
		{
			name:       "partial with fine and discount",
			fee:        FeeCollectionModel{FeeCollectionAmount: 500, FeeCollectionFine: 20, FeeCollectionDiscount: 50, FeeCollectionPaid: 100},
			wantDue:    370,
			wantStatus: FeeStatusPartial,
		},
		{
			name:       "settled",
			fee:        FeeCollectionModel{FeeCollectionAmount: 500, FeeCollectionDiscount: 100, FeeCollectionPaid: 400},
			wantDue:    0,
			wantStatus: FeeStatusPaid,
		},
		{
			name:       "fully discounted",
			fee:        FeeCollectionModel{FeeCollectionAmount: 500, FeeCollectionDiscount: 500},
			wantDue:    0,
			wantStatus: FeeStatusPaid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDue, tt.fee.Due())
			assert.Equal(t, tt.wantStatus, tt.fee.Status())
		})
	}
}

func TestStatusCondition(t *testing.T) {
	_, ok := StatusCondition("overdue")
	assert.False(t, ok)

	cond, ok := StatusCondition(FeeStatusPartial)
	assert.True(t, ok)
	assert.Contains(t, cond, "fee_collection_paid > 0")
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleOf(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		installment int64
		want        []int64
	}{
		{name: "even split", amount: 1200, installment: 300, want: []int64{300, 300, 300, 300}},
		{name: "remainder in last", amount: 1000, installment: 300, want: []int64{300, 300, 300, 100}},
		{name: "installment above amount", amount: 250, installment: 400, want: []int64{250}},
		{name: "zero installment", amount: 250, installment: 0, want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScheduleOf(tt.amount, tt.installment)
			assert.Equal(t, tt.want, got)

			var sum int64
			for _, v := range got {
				sum += v
			}
			if len(got) > 0 {
				assert.Equal(t, tt.amount, sum)
			}
		})
	}
}

func TestLoanRemaining(t *testing.T) {
	loan := StaffWelfareLoanModel{StaffWelfareLoanAmount: 1000, StaffWelfareLoanInstallmentAmount: 300}
	assert.Equal(t, 4, loan.InstallmentCount())
	assert.Equal(t, int64(700), loan.Remaining(300))
	assert.Equal(t, int64(0), loan.Remaining(1200))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	feeModel "schoolms_backend/internals/features/finance/fee_collections/model"
)

func TestSalaryAmountAndStatus(t *testing.T) {
	m := SalaryModel{SalaryBasic: 3000, SalaryAllowance: 500, SalaryDeduction: 200}
	m.RecomputeAmount()
	assert.Equal(t, int64(3300), m.SalaryAmount)
	assert.Equal(t, int64(3300), m.Due())
	assert.Equal(t, feeModel.FeeStatusUnpaid, m.Status())

	m.SalaryPaid = 1000
	assert.Equal(t, int64(2300), m.Due())
	assert.Equal(t, feeModel.FeeStatusPartial, m.Status())

	m.SalaryPaid = 3300
	assert.Equal(t, feeModel.FeeStatusPaid, m.Status())
}

package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "07:30", want: "07:30:00"},
		{in: "23:59:59", want: "23:59:59"},
		{in: "24:00", wantErr: true},
		{in: "7:30", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 2, 27, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2024, time.December)
	assert.Equal(t, "2024-12-01", FormatDate(from))
	assert.Equal(t, "2025-01-01", FormatDate(to))
}

func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{name: "empty", total: 0, page: 1, wantPages: 0},
		{name: "single page", total: 20, page: 1, wantPages: 1},
		{name: "first of three", total: 41, page: 1, wantPages: 3, wantNext: true},
		{name: "middle", total: 41, page: 2, wantPages: 3, wantNext: true, wantPrev: true},
		{name: "past the end", total: 41, page: 9, wantPages: 3, wantPrev: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildMeta(tt.total, Params{Page: tt.page, PerPage: PerPageDefault})
			assert.Equal(t, tt.wantPages, m.TotalPages)
			assert.Equal(t, tt.wantNext, m.HasNext)
			assert.Equal(t, tt.wantPrev, m.HasPrev)
			if tt.wantNext {
				require.NotNil(t, m.NextPage)
				assert.Equal(t, tt.page+1, *m.NextPage)
			} else {
				assert.Nil(t, m.NextPage)
			}
		})
	}
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "library-manager", GenerateSlug("  Library Manager "))
	assert.Equal(t, "activity_logs", GenerateSlug("activity_logs"))
	assert.Equal(t, "fees-collect", GenerateSlug("Fees / Collect!"))
}

type feeLine struct {
	Amount int `json:"amount" validate:"gt=0"`
}

type feePayload struct {
	Name    string    `json:"name" validate:"required"`
	DueDate string    `json:"due_date" validate:"omitempty,dateonly"`
	Opens   string    `json:"opens_at" validate:"omitempty,clock"`
	Items   []feeLine `json:"items" validate:"required,dive"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(feePayload{
		DueDate: "2024-13-01",
		Opens:   "25:00",
		Items:   []feeLine{{Amount: 10}, {Amount: 0}},
	})
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, []string{"name is required"}, ve.Fields["name"])
	assert.Contains(t, ve.Fields, "due_date")
	assert.Contains(t, ve.Fields, "opens_at")
	assert.Contains(t, ve.Fields, "items[1].amount")
	assert.NotContains(t, ve.Fields, "items[0].amount")

	assert.NoError(t, ValidateStruct(feePayload{Name: "Term 1", DueDate: "2024-02-29", Opens: "07:30", Items: []feeLine{{Amount: 1}}}))
}

func TestValidationErrorOrNil(t *testing.T) {
	ve := &ValidationError{}
	assert.NoError(t, ve.OrNil())
	ve.Add("email", "taken")
	assert.EqualError(t, ve.OrNil(), "validation failed: email: taken")
}

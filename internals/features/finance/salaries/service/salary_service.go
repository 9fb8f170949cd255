package service

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/finance/salaries/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/people"
)

func duplicate(m model.SalaryModel) error {
	return helper.Conflict("A salary for this employee for %02d/%d already exists", m.SalaryMonth, m.SalaryYear)
}

// ensureUniquePeriod rejects a second salary for the same employee and month.
func ensureUniquePeriod(tx *gorm.DB, m model.SalaryModel) error {
	var n int64
	q := tx.Model(&model.SalaryModel{}).Where(
		"salary_employee_type = ? AND salary_employee_id = ? AND salary_month = ? AND salary_year = ?",
		m.SalaryEmployeeType, m.SalaryEmployeeID, m.SalaryMonth, m.SalaryYear)
	if m.SalaryID != uuid.Nil {
		q = q.Where("salary_id <> ?", m.SalaryID)
	}
	if err := q.Count(&n).Error; err != nil {
		return errors.Wrap(err, "check salary period")
	}
	if n > 0 {
		return duplicate(m)
	}
	return nil
}

// Create checks the employee and the period, then inserts. The unique index
// still catches a concurrent duplicate.
func Create(tx *gorm.DB, m *model.SalaryModel) (people.Person, error) {
	emp, ok, err := people.Find(tx, m.SalaryEmployeeType, m.SalaryEmployeeID)
	if err != nil {
		return people.Person{}, err
	}
	if !ok {
		return people.Person{}, helper.NewValidationError("salary_employee_id", "The selected employee is invalid.")
	}
	if err := ensureUniquePeriod(tx, *m); err != nil {
		return people.Person{}, err
	}
	if err := tx.Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return people.Person{}, duplicate(*m)
		}
		return people.Person{}, errors.Wrap(err, "create salary")
	}
	return emp, nil
}

func Save(tx *gorm.DB, m *model.SalaryModel) error {
	if err := ensureUniquePeriod(tx, *m); err != nil {
		return err
	}
	if err := tx.Save(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return duplicate(*m)
		}
		return errors.Wrap(err, "update salary")
	}
	return nil
}

// Totals sums a filtered salary query.
type Totals struct {
	TotalAmount int64 `json:"total_amount"`
	TotalPaid   int64 `json:"total_paid"`
	TotalDue    int64 `json:"total_due"`
}

func Summarize(q *gorm.DB) (Totals, error) {
	var t Totals
	err := q.Session(&gorm.Session{}).Select(
		"COALESCE(SUM(salary_amount), 0) AS total_amount, " +
			"COALESCE(SUM(salary_paid), 0) AS total_paid, " +
			"COALESCE(SUM(" + model.DueExpr + "), 0) AS total_due",
	).Scan(&t).Error
	return t, errors.Wrap(err, "summarize salaries")
}

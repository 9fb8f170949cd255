package service

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	examModel "schoolms_backend/internals/features/academics/exams/model"
	"schoolms_backend/internals/features/academics/results/model"
	helper "schoolms_backend/internals/helpers"
)

type SubjectLine struct {
	Subject       string  `json:"subject"`
	MarksObtained int     `json:"marks_obtained"`
	TotalMarks    int     `json:"total_marks"`
	Percentage    float64 `json:"percentage"`
	Grade         string  `json:"grade"`
	Passed        bool    `json:"passed"`
}

// ReportCard aggregates a student's subjects in one exam. Passed requires
// every subject to pass.
type ReportCard struct {
	ExamID        uuid.UUID     `json:"exam_id"`
	ExamName      string        `json:"exam_name"`
	StudentID     uuid.UUID     `json:"student_id"`
	Subjects      []SubjectLine `json:"subjects"`
	TotalObtained int           `json:"total_obtained"`
	TotalMarks    int           `json:"total_marks"`
	Percentage    float64       `json:"percentage"`
	Grade         string        `json:"grade"`
	Passed        bool          `json:"passed"`
}

func BuildReportCard(exam examModel.ExamModel, studentID uuid.UUID, rows []model.ExamResultModel) ReportCard {
	card := ReportCard{
		ExamID:    exam.ExamID,
		ExamName:  exam.ExamName,
		StudentID: studentID,
		Subjects:  make([]SubjectLine, 0, len(rows)),
		Passed:    len(rows) > 0,
	}
	for _, r := range rows {
		line := SubjectLine{
			Subject:       r.ExamResultSubject,
			MarksObtained: r.ExamResultMarksObtained,
			TotalMarks:    exam.ExamTotalMarks,
			Percentage:    model.PercentOf(r.ExamResultMarksObtained, exam.ExamTotalMarks),
			Passed:        model.Passed(r.ExamResultMarksObtained, exam.ExamPassMarks),
		}
		line.Grade = model.GradeOf(line.Percentage)
		card.Subjects = append(card.Subjects, line)
		card.TotalObtained += r.ExamResultMarksObtained
		card.TotalMarks += exam.ExamTotalMarks
		card.Passed = card.Passed && line.Passed
	}
	card.Percentage = model.PercentOf(card.TotalObtained, card.TotalMarks)
	card.Grade = model.GradeOf(card.Percentage)
	return card
}

func LoadReportCard(db *gorm.DB, examID, studentID uuid.UUID) (ReportCard, error) {
	var exam examModel.ExamModel
	if err := db.Limit(1).Find(&exam, "exam_id = ?", examID).Error; err != nil {
		return ReportCard{}, errors.Wrap(err, "load exam")
	}
	if exam.ExamID == uuid.Nil {
		return ReportCard{}, helper.NotFound("Exam")
	}
	var rows []model.ExamResultModel
	if err := db.Where("exam_result_exam_id = ? AND exam_result_student_id = ?", examID, studentID).
		Order("exam_result_subject ASC").Find(&rows).Error; err != nil {
		return ReportCard{}, errors.Wrap(err, "load results")
	}
	return BuildReportCard(exam, studentID, rows), nil
}

// LatestCards returns report cards for the student's most recent exams.
func LatestCards(db *gorm.DB, studentID uuid.UUID, limit int) ([]ReportCard, error) {
	var examIDs []uuid.UUID
	err := db.Model(&model.ExamResultModel{}).
		Joins("JOIN exams ON exams.exam_id = exam_results.exam_result_exam_id").
		Where("exam_results.exam_result_student_id = ?", studentID).
		Group("exams.exam_id, exams.exam_start_date").
		Order("exams.exam_start_date DESC").
		Limit(limit).
		Pluck("exams.exam_id", &examIDs).Error
	if err != nil {
		return nil, errors.Wrap(err, "load latest exams")
	}
	out := make([]ReportCard, 0, len(examIDs))
	for _, id := range examIDs {
		card, err := LoadReportCard(db, id, studentID)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

// CheckMarks validates a mark against the exam's total.
func CheckMarks(field string, marks int, exam examModel.ExamModel) error {
	if marks > exam.ExamTotalMarks {
		return helper.NewValidationError(field, "The marks obtained may not be greater than the exam total marks.")
	}
	return nil
}

// DuplicateSubject is the Conflict for the (exam, student, subject) key.
func DuplicateSubject(subject string) error {
	return helper.Conflict("A result for %s already exists for this student in this exam", subject)
}

package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	examModel "schoolms_backend/internals/features/academics/exams/model"
	"schoolms_backend/internals/features/academics/results/model"
)

func TestBuildReportCard(t *testing.T) {
	exam := examModel.ExamModel{ExamID: uuid.New(), ExamName: "Mid Term", ExamTotalMarks: 100, ExamPassMarks: 40}
	student := uuid.New()

	t.Run("all subjects pass", func(t *testing.T) {
		card := BuildReportCard(exam, student, []model.ExamResultModel{
			{ExamResultSubject: "Math", ExamResultMarksObtained: 92},
			{ExamResultSubject: "Science", ExamResultMarksObtained: 68},
		})
		assert.Equal(t, 160, card.TotalObtained)
		assert.Equal(t, 200, card.TotalMarks)
		assert.Equal(t, 80.0, card.Percentage)
		assert.Equal(t, "A", card.Grade)
		assert.True(t, card.Passed)
		assert.Equal(t, "A+", card.Subjects[0].Grade)
	})

	t.Run("one failed subject fails the card", func(t *testing.T) {
		card := BuildReportCard(exam, student, []model.ExamResultModel{
			{ExamResultSubject: "Math", ExamResultMarksObtained: 95},
			{ExamResultSubject: "Art", ExamResultMarksObtained: 30},
		})
		assert.False(t, card.Passed)
		assert.False(t, card.Subjects[1].Passed)
		assert.Equal(t, "F", card.Subjects[1].Grade)
		assert.Equal(t, 62.5, card.Percentage)
		assert.Equal(t, "C", card.Grade)
	})

	t.Run("no results", func(t *testing.T) {
		card := BuildReportCard(exam, student, nil)
		assert.False(t, card.Passed)
		assert.Empty(t, card.Subjects)
		assert.Equal(t, 0.0, card.Percentage)
	})
}

func TestCheckMarks(t *testing.T) {
	exam := examModel.ExamModel{ExamTotalMarks: 50}
	assert.NoError(t, CheckMarks("marks_obtained", 50, exam))
	assert.Error(t, CheckMarks("marks_obtained", 51, exam))
}

package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms_backend/internals/databases/testdb"
	"schoolms_backend/internals/features/academics/promotions/dto"
	"schoolms_backend/internals/features/academics/promotions/model"
	"schoolms_backend/internals/features/academics/promotions/service"
	classModel "schoolms_backend/internals/features/school/classes/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
	userModel "schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
)

type school struct {
	db       *gorm.DB
	from, to classModel.ClassModel
	students []studentModel.StudentModel
}

func setup(t *testing.T) school {
	t.Helper()
	db := testdb.Open(t)
	s := school{
		db:   db,
		from: classModel.ClassModel{ClassName: "Grade 7", ClassSection: "A"},
		to:   classModel.ClassModel{ClassName: "Grade 8", ClassSection: "A"},
	}
	require.NoError(t, db.Create(&s.from).Error)
	require.NoError(t, db.Create(&s.to).Error)
	for i := 0; i < 3; i++ {
		u := userModel.UserModel{Name: fmt.Sprintf("Student %d", i), Email: fmt.Sprintf("s%d@school.local", i), Password: "x"}
		require.NoError(t, db.Create(&u).Error)
		st := studentModel.StudentModel{
			StudentUserID:        u.ID,
			StudentAdmissionNo:   fmt.Sprintf("ADM-%d", i),
			StudentClassID:       &s.from.ClassID,
			StudentAdmissionDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.Create(&st).Error)
		s.students = append(s.students, st)
	}
	return s
}

func (s school) request(entries ...dto.PromoteEntry) dto.PromoteRequest {
	return dto.PromoteRequest{FromClassID: s.from.ClassID, ToClassID: s.to.ClassID, AcademicYear: "2024/2025", Students: entries}
}

func (s school) promote(req dto.PromoteRequest) ([]model.StudentPromotionModel, service.Outcome, error) {
	var (
		rows []model.StudentPromotionModel
		out  service.Outcome
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rows, out, err = service.Promote(tx, req, nil)
		return err
	})
	return rows, out, err
}

func classOf(t *testing.T, db *gorm.DB, id uuid.UUID) uuid.UUID {
	t.Helper()
	var st studentModel.StudentModel
	require.NoError(t, db.First(&st, "student_id = ?", id).Error)
	require.NotNil(t, st.StudentClassID)
	return *st.StudentClassID
}

func TestPromoteMovesOnlyPromotedStudents(t *testing.T) {
	s := setup(t)
	rows, out, err := s.promote(s.request(
		dto.PromoteEntry{StudentID: s.students[0].StudentID, Status: "promoted"},
		dto.PromoteEntry{StudentID: s.students[1].StudentID, Status: "detained"},
	))
	require.NoError(t, err)
	assert.Equal(t, service.Outcome{Promoted: 1, Detained: 1}, out)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].StudentPromotionToClassID)
	assert.Equal(t, s.to.ClassID, *rows[0].StudentPromotionToClassID)
	assert.Nil(t, rows[1].StudentPromotionToClassID)

	assert.Equal(t, s.to.ClassID, classOf(t, s.db, s.students[0].StudentID))
	assert.Equal(t, s.from.ClassID, classOf(t, s.db, s.students[1].StudentID))

	cands, err := service.Candidates(s.db, s.from.ClassID, "2024/2025", nil, nil)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	processed := map[uuid.UUID]bool{}
	for _, c := range cands {
		processed[c.StudentID] = c.AlreadyProcessed
	}
	assert.True(t, processed[s.students[1].StudentID])
	assert.False(t, processed[s.students[2].StudentID])
}

func TestPromoteRejectsWholeBatch(t *testing.T) {
	s := setup(t)
	_, _, err := s.promote(s.request(dto.PromoteEntry{StudentID: s.students[1].StudentID, Status: "detained"}))
	require.NoError(t, err)

	tests := []struct {
		name  string
		req   dto.PromoteRequest
		field string
	}{
		{
			name: "unknown target class",
			req: dto.PromoteRequest{FromClassID: s.from.ClassID, ToClassID: uuid.New(), AcademicYear: "2024/2025",
				Students: []dto.PromoteEntry{{StudentID: s.students[0].StudentID, Status: "promoted"}}},
			field: "to_class_id",
		},
		{
			name: "listed twice",
			req: s.request(
				dto.PromoteEntry{StudentID: s.students[0].StudentID, Status: "promoted"},
				dto.PromoteEntry{StudentID: s.students[0].StudentID, Status: "promoted"},
			),
			field: "students[1].student_id",
		},
		{
			name: "already processed this year",
			req: s.request(
				dto.PromoteEntry{StudentID: s.students[0].StudentID, Status: "promoted"},
				dto.PromoteEntry{StudentID: s.students[1].StudentID, Status: "promoted"},
			),
			field: "students[1].student_id",
		},
		{
			name:  "unknown student",
			req:   s.request(dto.PromoteEntry{StudentID: uuid.New(), Status: "promoted"}),
			field: "students[0].student_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.promote(tt.req)
			var ve *helper.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
			assert.Equal(t, s.from.ClassID, classOf(t, s.db, s.students[0].StudentID))
		})
	}

	var n int64
	require.NoError(t, s.db.Model(&model.StudentPromotionModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

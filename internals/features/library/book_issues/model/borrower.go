package model

import (
	"github.com/google/uuid"

	studentModel "schoolms_backend/internals/features/school/students/model"
	teacherModel "schoolms_backend/internals/features/school/teachers/model"
	userModel "schoolms_backend/internals/features/users/users/model"
)

type BorrowerKind string

const (
	BorrowerStudent BorrowerKind = "student"
	BorrowerTeacher BorrowerKind = "teacher"
)

func (k BorrowerKind) Valid() bool { return k == BorrowerStudent || k == BorrowerTeacher }

// Borrower holds exactly one of Student or Teacher, selected by Kind.
type Borrower struct {
	Kind    BorrowerKind
	Student *studentModel.StudentModel
	Teacher *teacherModel.TeacherModel
}

func StudentBorrower(s *studentModel.StudentModel) Borrower {
	return Borrower{Kind: BorrowerStudent, Student: s}
}

func TeacherBorrower(t *teacherModel.TeacherModel) Borrower {
	return Borrower{Kind: BorrowerTeacher, Teacher: t}
}

func (b Borrower) ID() uuid.UUID {
	switch b.Kind {
	case BorrowerStudent:
		if b.Student != nil {
			return b.Student.StudentID
		}
	case BorrowerTeacher:
		if b.Teacher != nil {
			return b.Teacher.TeacherID
		}
	}
	return uuid.Nil
}

// Code is the admission number or employee id.
func (b Borrower) Code() string {
	switch b.Kind {
	case BorrowerStudent:
		if b.Student != nil {
			return b.Student.StudentAdmissionNo
		}
	case BorrowerTeacher:
		if b.Teacher != nil {
			return b.Teacher.TeacherEmployeeID
		}
	}
	return ""
}

func (b Borrower) Name() string {
	if u := b.user(); u != nil {
		return u.Name
	}
	return ""
}

func (b Borrower) Email() string {
	if u := b.user(); u != nil {
		return u.Email
	}
	return ""
}

func (b Borrower) user() *userModel.UserModel {
	switch b.Kind {
	case BorrowerStudent:
		if b.Student != nil {
			return b.Student.User
		}
	case BorrowerTeacher:
		if b.Teacher != nil {
			return b.Teacher.User
		}
	}
	return nil
}

// BorrowerKey identifies a borrower across both tables.
type BorrowerKey struct {
	Kind BorrowerKind
	ID   uuid.UUID
}

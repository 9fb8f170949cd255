package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	teacherModel "schoolms_backend/internals/features/school/teachers/model"
)

// ClassModel is one (name, section) pair, e.g. "Grade 7" / "B". A class
// without sections stores an empty section.
type ClassModel struct {
	ClassID       uuid.UUID `gorm:"column:class_id;type:uuid;primaryKey" json:"class_id"`
	ClassName     string    `gorm:"column:class_name;type:varchar(100);not null;uniqueIndex:uq_classes_name_section,priority:1" json:"class_name"`
	ClassSection  string    `gorm:"column:class_section;type:varchar(20);not null;default:'';uniqueIndex:uq_classes_name_section,priority:2" json:"class_section"`
	ClassCapacity *int      `gorm:"column:class_capacity" json:"class_capacity,omitempty"`

	ClassTeacherID *uuid.UUID                 `gorm:"column:class_teacher_id;type:uuid;index:idx_classes_teacher" json:"class_teacher_id,omitempty"`
	ClassTeacher   *teacherModel.TeacherModel `gorm:"foreignKey:ClassTeacherID;references:TeacherID" json:"-"`

	ClassDescription *string `gorm:"column:class_description;type:text" json:"class_description,omitempty"`

	ClassCreatedAt time.Time `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

// Label joins name and section for display ("Grade 7 B").
func (m ClassModel) Label() string {
	if m.ClassSection == "" {
		return m.ClassName
	}
	return m.ClassName + " " + m.ClassSection
}

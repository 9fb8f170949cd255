// Package people resolves the display identity of students, teachers and
// staff referenced by (kind, id) pairs in salaries and attendance.
package people

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Kind string

const (
	Student Kind = "student"
	Teacher Kind = "teacher"
	Staff   Kind = "staff"
)

func (k Kind) Valid() bool { return k == Student || k == Teacher || k == Staff }

// Person is the common projection of the three member tables.
type Person struct {
	Kind   Kind      `json:"type"`
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Status string    `json:"status"`
}

type Key struct {
	Kind Kind
	ID   uuid.UUID
}

type source struct {
	table, id, user, code, status string
}

var sources = map[Kind]source{
	Student: {"students", "student_id", "student_user_id", "student_admission_no", "student_status"},
	Teacher: {"teachers", "teacher_id", "teacher_user_id", "teacher_employee_id", "teacher_status"},
	Staff:   {"staff", "staff_id", "staff_user_id", "staff_employee_id", "staff_status"},
}

func base(db *gorm.DB, k Kind) *gorm.DB {
	s := sources[k]
	return db.Table(s.table).
		Select(s.table+"."+s.id+" AS id, users.id AS user_id, "+
			s.table+"."+s.code+" AS code, users.name AS name, users.email AS email, "+
			s.table+"."+s.status+" AS status").
		Joins("JOIN users ON users.id = " + s.table + "." + s.user)
}

type row struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Code   string
	Name   string
	Email  string
	Status string
}

func (r row) person(k Kind) Person {
	return Person{Kind: k, ID: r.ID, UserID: r.UserID, Code: r.Code, Name: r.Name, Email: r.Email, Status: r.Status}
}

// Find returns (Person{}, false, nil) when the id does not exist.
func Find(db *gorm.DB, k Kind, id uuid.UUID) (Person, bool, error) {
	if !k.Valid() {
		return Person{}, false, nil
	}
	var rows []row
	if err := base(db, k).Where(sources[k].table+"."+sources[k].id+" = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return Person{}, false, errors.Wrapf(err, "find %s", k)
	}
	if len(rows) == 0 {
		return Person{}, false, nil
	}
	return rows[0].person(k), true, nil
}

// Resolve loads every referenced person with one query per kind.
func Resolve(db *gorm.DB, keys []Key) (map[Key]Person, error) {
	byKind := map[Kind][]uuid.UUID{}
	for _, k := range keys {
		if k.Kind.Valid() {
			byKind[k.Kind] = append(byKind[k.Kind], k.ID)
		}
	}
	out := make(map[Key]Person, len(keys))
	for kind, ids := range byKind {
		var rows []row
		if err := base(db, kind).Where(sources[kind].table+"."+sources[kind].id+" IN ?", ids).Scan(&rows).Error; err != nil {
			return nil, errors.Wrapf(err, "resolve %s", kind)
		}
		for _, r := range rows {
			out[Key{Kind: kind, ID: r.ID}] = r.person(kind)
		}
	}
	return out, nil
}

// Active lists every active member of kind.
func Active(db *gorm.DB, k Kind) ([]Person, error) {
	if !k.Valid() {
		return nil, nil
	}
	var rows []row
	s := sources[k]
	if err := base(db, k).Where(s.table+"."+s.status+" = ?", "active").Order("users.name ASC").Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "list active %s", k)
	}
	out := make([]Person, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.person(k))
	}
	return out, nil
}

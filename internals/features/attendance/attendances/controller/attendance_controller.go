package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/attendance/attendances/dto"
	"schoolms_backend/internals/features/attendance/attendances/model"
	"schoolms_backend/internals/features/attendance/attendances/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
	"schoolms_backend/internals/services/people"
)

type AttendanceController struct {
	DB *gorm.DB
}

func NewAttendanceController(db *gorm.DB) *AttendanceController { return &AttendanceController{DB: db} }

func queryKind(c *fiber.Ctx) (people.Kind, error) {
	k := people.Kind(strings.ToLower(strings.TrimSpace(c.Query("attendee_type"))))
	if k != "" && !k.Valid() {
		return "", helper.NewValidationError("attendee_type", "attendee_type must be one of student, teacher, staff")
	}
	return k, nil
}

func studentsOfClass(db *gorm.DB, classID uuid.UUID) *gorm.DB {
	return db.Table("students").Select("student_id").Where("student_class_id = ?", classID)
}

// GET /attendances?attendee_type=&attendee_id=&class_id=&status=&from=&to=&page=
// class_id narrows to the students of that class.
func (ctl *AttendanceController) List(c *fiber.Ctx) error {
	kind, err := queryKind(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	attendeeID, err := helper.QueryUUID(c, "attendee_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	q := db.Model(&model.AttendanceModel{})
	q = helper.WhereEq(q, "attendance_attendee_type", string(kind))
	q = helper.WhereUUID(q, "attendance_attendee_id", attendeeID)
	q = helper.WhereEq(q, "attendance_status", strings.ToLower(c.Query("status")))
	q = helper.WhereDateRange(q, "attendance_date", from, to)
	if classID != nil {
		q = q.Where("attendance_attendee_type = ? AND attendance_attendee_id IN (?)", people.Student, studentsOfClass(db, *classID))
	}

	page, err := helper.Paginate[model.AttendanceModel](q, helper.ParsePage(c, helper.PerPageLogs),
		"attendance_date DESC, attendance_created_at DESC")
	if err != nil {
		return helper.RespondError(c, err)
	}
	ps, err := people.Resolve(db, keysOf(page.Items))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Attendance fetched", dto.FromModels(page.Items, ps), page.Meta)
}

// POST /attendances marks one attendee; a second mark for the same day overwrites.
func (ctl *AttendanceController) Mark(c *fiber.Ctx) error {
	var req dto.MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	row := req.ToModel()

	db := ctl.DB.WithContext(c.Context())
	var (
		out    model.AttendanceModel
		person people.Person
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		p, ok, err := people.Find(tx, row.AttendanceAttendeeType, row.AttendanceAttendeeID)
		if err != nil {
			return err
		}
		if !ok {
			return helper.NewValidationError("attendance_attendee_id", "The selected attendee is invalid.")
		}
		person = p
		if err := service.Upsert(tx, []model.AttendanceModel{row}); err != nil {
			return err
		}
		if err := tx.First(&out, "attendance_attendee_type = ? AND attendance_attendee_id = ? AND attendance_date = ?",
			row.AttendanceAttendeeType, row.AttendanceAttendeeID, row.AttendanceDate).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, "marked", "attendance", out.AttendanceID,
			"Marked %s %s as %s on %s", p.Kind, p.Name, out.AttendanceStatus, helper.FormatDate(out.AttendanceDate))
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Attendance saved", dto.FromModel(out, &person))
}

// POST /attendances/bulk
func (ctl *AttendanceController) BulkMark(c *fiber.Ctx) error {
	var req dto.BulkMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	rows, err := req.ToModels()
	if err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	err = db.Transaction(func(tx *gorm.DB) error {
		ps, err := people.Resolve(tx, keysOf(rows))
		if err != nil {
			return err
		}
		ve := &helper.ValidationError{}
		for i, r := range rows {
			if _, ok := ps[people.Key{Kind: r.AttendanceAttendeeType, ID: r.AttendanceAttendeeID}]; !ok {
				ve.Add(fmt.Sprintf("records[%d].attendee_id", i), "The selected attendee is invalid.")
			}
		}
		if err := ve.OrNil(); err != nil {
			return err
		}
		if err := service.Upsert(tx, rows); err != nil {
			return err
		}
		return activityService.Record(tx, activityService.Entry{
			UserID:      helperAuth.OptionalUserID(c),
			Action:      "bulk_marked",
			ModelType:   "attendance",
			Description: fmt.Sprintf("Marked %d %s attendance rows for %s", len(rows), req.AttendanceAttendeeType, req.AttendanceDate),
		})
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Attendance saved", fiber.Map{
		"attendance_date":          req.AttendanceDate,
		"attendance_attendee_type": req.AttendanceAttendeeType,
		"saved":                    len(rows),
	})
}

// PUT /attendances/:id
func (ctl *AttendanceController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	db := ctl.DB.WithContext(c.Context())
	var m model.AttendanceModel
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "attendance_id = ?", id).Error; err != nil {
			return err
		}
		req.Apply(&m)
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "attendance", m.AttendanceID,
			"Changed attendance on %s to %s", helper.FormatDate(m.AttendanceDate), m.AttendanceStatus)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	var pp *people.Person
	if p, ok, err := people.Find(db, m.AttendanceAttendeeType, m.AttendanceAttendeeID); err == nil && ok {
		pp = &p
	}
	return helper.JsonUpdated(c, "Attendance updated", dto.FromModel(m, pp))
}

// DELETE /attendances/:id
func (ctl *AttendanceController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.AttendanceModel
		if err := tx.First(&m, "attendance_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "attendance", id,
			"Deleted attendance on %s", helper.FormatDate(m.AttendanceDate))
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Attendance deleted", fiber.Map{"attendance_id": id})
}

// GET /attendances/summary?attendee_type=&attendee_id=&from=&to=
// GET /attendances/summary?class_id=&from=&to= summarizes every active student of a class.
func (ctl *AttendanceController) Summary(c *fiber.Ctx) error {
	kind, err := queryKind(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	attendeeID, err := helper.QueryUUID(c, "attendee_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	db := ctl.DB.WithContext(c.Context())

	switch {
	case attendeeID != nil:
		if kind == "" {
			return helper.RespondError(c, helper.NewValidationError("attendee_type", "attendee_type is required"))
		}
		p, ok, err := people.Find(db, kind, *attendeeID)
		if err != nil {
			return helper.RespondError(c, err)
		}
		if !ok {
			return helper.RespondError(c, helper.NotFound("Attendee"))
		}
		s, err := service.SummaryOf(db, kind, p.ID, from, to)
		if err != nil {
			return helper.RespondError(c, err)
		}
		return helper.JsonOK(c, "Attendance summary fetched", dto.AttendeeSummary{Attendee: p, Summary: s})

	case classID != nil:
		var ids []uuid.UUID
		if err := db.Table("students").Where("student_class_id = ? AND student_status = ?", *classID, "active").
			Pluck("student_id", &ids).Error; err != nil {
			return helper.RespondError(c, err)
		}
		keys := make([]people.Key, 0, len(ids))
		for _, id := range ids {
			keys = append(keys, people.Key{Kind: people.Student, ID: id})
		}
		ps, err := people.Resolve(db, keys)
		if err != nil {
			return helper.RespondError(c, err)
		}
		sums, err := service.Summaries(db, people.Student, ids, from, to)
		if err != nil {
			return helper.RespondError(c, err)
		}
		out := make([]dto.AttendeeSummary, 0, len(ids))
		for _, k := range keys {
			out = append(out, dto.AttendeeSummary{Attendee: ps[k], Summary: sums[k.ID]})
		}
		return helper.JsonOK(c, "Attendance summary fetched", out)
	}
	return helper.RespondError(c, helper.NewValidationError("attendee_id", "attendee_id or class_id is required"))
}

func keysOf(rows []model.AttendanceModel) []people.Key {
	keys := make([]people.Key, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, people.Key{Kind: r.AttendanceAttendeeType, ID: r.AttendanceAttendeeID})
	}
	return keys
}

package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/library/book_issues/dto"
	"schoolms_backend/internals/features/library/book_issues/model"
	"schoolms_backend/internals/features/library/book_issues/service"
	helper "schoolms_backend/internals/helpers"
)

type BookIssueController struct {
	DB *gorm.DB
	// FineDefault applies when library.fine_per_day is not set.
	FineDefault int64
}

func NewBookIssueController(db *gorm.DB, fineDefault int64) *BookIssueController {
	return &BookIssueController{DB: db, FineDefault: fineDefault}
}

func (ctl *BookIssueController) derive(db *gorm.DB) dto.Derive {
	return dto.Derive{Today: helper.Today(), FinePerDay: service.FinePerDay(db, ctl.FineDefault)}
}

func preloadBook(db *gorm.DB) *gorm.DB { return db.Preload("Book") }

// GET /book-issues?status=&borrower_type=&borrower_id=&book_id=&overdue=true&from=&to=&page=
// from/to filter on issue date.
func (ctl *BookIssueController) List(c *fiber.Ctx) error {
	bookID, err := helper.QueryUUID(c, "book_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	borrowerID, err := helper.QueryUUID(c, "borrower_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	q := db.Model(&model.BookIssueModel{})
	q = helper.WhereEq(q, "book_issue_status", c.Query("status"))
	q = helper.WhereEq(q, "book_issue_borrower_type", strings.ToLower(c.Query("borrower_type")))
	q = helper.WhereUUID(q, "book_issue_borrower_id", borrowerID)
	q = helper.WhereUUID(q, "book_issue_book_id", bookID)
	q = helper.WhereDateRange(q, "book_issue_issue_date", from, to)
	if overdue, _ := strconv.ParseBool(c.Query("overdue")); overdue {
		q = q.Where("book_issue_status = ? AND book_issue_due_date < ?", model.IssueStatusIssued, helper.Today())
	}

	page, err := helper.Paginate[model.BookIssueModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"book_issue_issue_date DESC, book_issue_created_at DESC", preloadBook)
	if err != nil {
		return helper.RespondError(c, err)
	}
	borrowers, err := service.ResolveBorrowers(db, page.Items)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Book issues fetched", dto.FromModels(page.Items, borrowers, ctl.derive(db)), page.Meta)
}

// GET /book-issues/:id
func (ctl *BookIssueController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())
	var m model.BookIssueModel
	if err := preloadBook(db).First(&m, "book_issue_id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	borrowers, err := service.ResolveBorrowers(db, []model.BookIssueModel{m})
	if err != nil {
		return helper.RespondError(c, err)
	}
	var bp *model.Borrower
	if b, ok := borrowers[model.BorrowerKey{Kind: m.BookIssueBorrowerType, ID: m.BookIssueBorrowerID}]; ok {
		bp = &b
	}
	return helper.JsonOK(c, "Book issue fetched", dto.FromModel(m, bp, ctl.derive(db)))
}

// POST /book-issues
func (ctl *BookIssueController) Create(c *fiber.Ctx) error {
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	in, err := req.ToNewIssue()
	if err != nil {
		return helper.RespondError(c, err)
	}

	var (
		m        *model.BookIssueModel
		borrower *model.Borrower
	)
	db := ctl.DB.WithContext(c.Context())
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		if m, borrower, err = service.Issue(tx, in); err != nil {
			return err
		}
		return activityService.Log(tx, c, "issued", "book_issue", m.BookIssueID,
			"Issued %q to %s %s", m.Book.BookTitle, borrower.Kind, borrower.Name())
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Book issued", dto.FromModel(*m, borrower, ctl.derive(db)))
}

// POST /book-issues/:id/return
func (ctl *BookIssueController) Return(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.BadPayload(c)
		}
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	d := ctl.derive(db)
	var m *model.BookIssueModel
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = service.Return(tx, id, req.DateOrToday(), d.FinePerDay); err != nil {
			return err
		}
		return activityService.Log(tx, c, "returned", "book_issue", m.BookIssueID,
			"Book returned with fine %d", m.BookIssueFine)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Book returned", dto.FromModel(*m, nil, d))
}

// DELETE /book-issues/:id puts the copy back if it was still out.
func (ctl *BookIssueController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.BookIssueModel
		if err := tx.First(&m, "book_issue_id = ?", id).Error; err != nil {
			return err
		}
		if m.BookIssueStatus == model.IssueStatusIssued {
			if _, err := service.Return(tx, id, helper.Today(), 0); err != nil {
				return err
			}
		}
		if err := tx.Delete(&model.BookIssueModel{}, "book_issue_id = ?", id).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "book_issue", id, "Deleted book issue record")
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Book issue deleted", fiber.Map{"book_issue_id": id})
}

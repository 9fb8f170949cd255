package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/library/books/dto"
	"schoolms_backend/internals/features/library/books/model"
	helper "schoolms_backend/internals/helpers"
)

type BookController struct {
	DB *gorm.DB
}

func NewBookController(db *gorm.DB) *BookController { return &BookController{DB: db} }

// GET /books?q=&category=&status=&page=
func (ctl *BookController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.Context()).Model(&model.BookModel{})
	q = helper.WhereSearch(q, c.Query("q"), "book_title", "book_author", "book_isbn")
	q = helper.WhereEq(q, "book_category", c.Query("category"))
	q = helper.WhereEq(q, "book_status", c.Query("status"))

	page, err := helper.Paginate[model.BookModel](q, helper.ParsePage(c, helper.PerPageDefault), "book_created_at DESC")
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Books fetched", dto.FromModels(page.Items), page.Meta)
}

// GET /books/categories (distinct, for the filter dropdown)
func (ctl *BookController) Categories(c *fiber.Ctx) error {
	var cats []string
	err := ctl.DB.WithContext(c.Context()).Model(&model.BookModel{}).
		Where("book_category IS NOT NULL AND book_category <> ''").
		Distinct().Order("book_category").Pluck("book_category", &cats).Error
	if err != nil {
		return helper.RespondError(c, err)
	}
	if cats == nil {
		cats = []string{}
	}
	return helper.JsonOK(c, "Categories fetched", cats)
}

// GET /books/:id
func (ctl *BookController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var m model.BookModel
	if err := ctl.DB.WithContext(c.Context()).First(&m, "book_id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Book fetched", dto.FromModel(m))
}

// POST /books
func (ctl *BookController) Create(c *fiber.Ctx) error {
	var req dto.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	m := req.ToModel()
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := ensureISBNUnique(tx, m.BookISBN, nil); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return isbnTaken()
			}
			return errors.Wrap(err, "create book")
		}
		return activityService.Log(tx, c, activity.ActionCreated, "book", m.BookID, "Added book %q", m.BookTitle)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Book created", dto.FromModel(m))
}

// PUT /books/:id
func (ctl *BookController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var m model.BookModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := helper.ForUpdate(tx).First(&m, "book_id = ?", id).Error; err != nil {
			return err
		}
		req.ApplyToModel(&m)
		if req.BookTotalCopies != nil && !m.SetTotalCopies(*req.BookTotalCopies) {
			return helper.NewValidationError("book_total_copies",
				"The total copies may not be less than the copies currently issued.")
		}
		if err := ensureISBNUnique(tx, m.BookISBN, &m.BookID); err != nil {
			return err
		}
		if err := tx.Save(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return isbnTaken()
			}
			return errors.Wrap(err, "update book")
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "book", m.BookID, "Updated book %q", m.BookTitle)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Book updated", dto.FromModel(m))
}

// DELETE /books/:id is rejected while copies are out; returned issue
// history goes with the book.
func (ctl *BookController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.BookModel
		if err := helper.ForUpdate(tx).First(&m, "book_id = ?", id).Error; err != nil {
			return err
		}
		if n := m.Issued(); n > 0 {
			return helper.Conflict("Cannot delete %q: %d copy(ies) are still issued", m.BookTitle, n)
		}
		if err := tx.Exec("DELETE FROM book_issues WHERE book_issue_book_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "delete book issues")
		}
		if err := tx.Delete(&m).Error; err != nil {
			return errors.Wrap(err, "delete book")
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "book", id, "Deleted book %q", m.BookTitle)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Book deleted", fiber.Map{"book_id": id})
}

func isbnTaken() error {
	return helper.NewValidationError("book_isbn", "The isbn has already been taken.")
}

func ensureISBNUnique(tx *gorm.DB, isbn *string, except *uuid.UUID) error {
	if isbn == nil {
		return nil
	}
	q := tx.Model(&model.BookModel{}).Where("book_isbn = ?", *isbn)
	if except != nil {
		q = q.Where("book_id <> ?", *except)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return errors.Wrap(err, "check isbn")
	}
	if n > 0 {
		return isbnTaken()
	}
	return nil
}

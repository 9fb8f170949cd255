package controller_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/databases/testdb"
	"schoolms_backend/internals/features/library/books/model"
	"schoolms_backend/internals/features/library/books/route"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
	"schoolms_backend/internals/middlewares"
)

type listBody struct {
	Data       []map[string]any `json:"data"`
	Pagination helper.Meta      `json:"pagination"`
}

func newApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocRoles, []string{constants.RoleAdmin})
		return c.Next()
	})
	route.BookAdminRoutes(api, db)
	return app
}

func seedBooks(t *testing.T, db *gorm.DB, available, unavailable int) {
	t.Helper()
	for i := 0; i < available; i++ {
		b := model.BookModel{BookTitle: fmt.Sprintf("Open Book %d", i), BookAuthor: "A", BookTotalCopies: 2, BookAvailable: 2}
		require.NoError(t, db.Create(&b).Error)
	}
	for i := 0; i < unavailable; i++ {
		b := model.BookModel{BookTitle: fmt.Sprintf("Lent Book %d", i), BookAuthor: "B", BookTotalCopies: 1, BookAvailable: 0}
		require.NoError(t, db.Create(&b).Error)
	}
}

func list(t *testing.T, app *fiber.App, query string) (int, listBody) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/books"+query, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body listBody
	require.NoError(t, sonic.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestListBooks(t *testing.T) {
	db := testdb.Open(t)
	seedBooks(t, db, 22, 3)
	app := newApp(db)

	tests := []struct {
		name      string
		query     string
		wantItems int
		wantTotal int64
		wantNext  bool
	}{
		{"first page", "", helper.PerPageDefault, 25, true},
		{"second page", "?page=2", 5, 25, false},
		{"page past the end", "?page=9", 0, 25, false},
		{"status filter", "?status=unavailable", 3, 3, false},
		{"search", "?q=lent", 3, 3, false},
		{"unknown status", "?status=lost", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := list(t, app, tt.query)
			require.Equal(t, http.StatusOK, status)
			assert.NotNil(t, body.Data)
			assert.Len(t, body.Data, tt.wantItems)
			assert.Equal(t, tt.wantTotal, body.Pagination.Total)
			assert.Equal(t, tt.wantNext, body.Pagination.HasNext)
		})
	}

	_, body := list(t, app, "?status=unavailable")
	for _, b := range body.Data {
		assert.Equal(t, string(model.BookStatusUnavailable), b["book_status"])
	}
}

func TestCreateBookRejectsDuplicateISBN(t *testing.T) {
	db := testdb.Open(t)
	app := newApp(db)

	post := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusCreated, post(`{"book_title":"Go","book_author":"K","book_isbn":"978-0-13-419044-0","book_total_copies":3}`))
	assert.Equal(t, http.StatusUnprocessableEntity, post(`{"book_title":"Go 2","book_author":"K","book_isbn":"9780134190440","book_total_copies":1}`))
	assert.Equal(t, http.StatusUnprocessableEntity, post(`{"book_title":"","book_author":"K","book_total_copies":0}`))

	var b model.BookModel
	require.NoError(t, db.Take(&b).Error)
	assert.Equal(t, 3, b.BookAvailable)
	assert.Equal(t, model.BookStatusAvailable, b.BookStatus)
}

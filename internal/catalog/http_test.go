package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newBookRouter(svc BookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/books", ListHandler(svc))
	router.GET("/api/books/:id", GetHandler(svc))
	router.POST("/api/books", CreateHandler(svc))
	router.PUT("/api/books/:id", UpdateHandler(svc))
	router.DELETE("/api/books/:id", DeleteHandler(svc))
	return router
}

type stubBookService struct {
	books []Book
	book  *Book
	err   error
}

func (s *stubBookService) List(ctx context.Context) ([]Book, error) {
	return s.books, s.err
}

func (s *stubBookService) Get(ctx context.Context, id int64) (*Book, error) {
	return s.book, s.err
}

func (s *stubBookService) Create(ctx context.Context, input CreateBookInput) (*Book, error) {
	return s.book, s.err
}

func (s *stubBookService) Update(ctx context.Context, id int64, input UpdateBookInput) (*Book, error) {
	return s.book, s.err
}

func (s *stubBookService) Delete(ctx context.Context, id int64) error {
	return s.err
}

func TestListHandler(t *testing.T) {
	router := newBookRouter(&stubBookService{books: []Book{{ID: 1, Title: "T", Author: "A"}}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var books []Book
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(books) != 1 || books[0].Title != "T" {
		t.Fatalf("unexpected books: %+v", books)
	}
}

func TestGetHandlerNotFound(t *testing.T) {
	router := newBookRouter(&stubBookService{err: ErrNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books/7", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	want := `{"error":"Book not found"}`
	if rec.Body.String() != want {
		t.Fatalf("body = %s, want %s", rec.Body.String(), want)
	}
}

func TestGetHandlerNonNumericID(t *testing.T) {
	router := newBookRouter(&stubBookService{book: &Book{ID: 1}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books/abc", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreateHandlerMissingFields(t *testing.T) {
	router := newBookRouter(&stubBookService{})

	req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"title":"only title"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateHandlerSuccess(t *testing.T) {
	router := newBookRouter(&stubBookService{book: &Book{ID: 5, Title: "T", Author: "A"}})

	req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"title":"T","author":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestCreateHandlerDuplicateISBN(t *testing.T) {
	router := newBookRouter(&stubBookService{err: ErrDuplicateISBN})

	req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"title":"T","author":"A","isbn":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCreateHandlerStoreFailure(t *testing.T) {
	router := newBookRouter(&stubBookService{err: errors.New("disk is on fire")})

	req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"title":"T","author":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// 内部エラーの詳細はクライアントに漏らさない
	if strings.Contains(rec.Body.String(), "disk is on fire") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestUpdateHandlerSuccess(t *testing.T) {
	router := newBookRouter(&stubBookService{book: &Book{ID: 1, Title: "Renamed", Author: "A"}})

	req := httptest.NewRequest(http.MethodPut, "/api/books/1", strings.NewReader(`{"title":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	var book Book
	if err := json.Unmarshal(rec.Body.Bytes(), &book); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if book.Title != "Renamed" {
		t.Fatalf("title = %s, want Renamed", book.Title)
	}
}

func TestUpdateHandlerNotFound(t *testing.T) {
	router := newBookRouter(&stubBookService{err: ErrNotFound})

	req := httptest.NewRequest(http.MethodPut, "/api/books/999", strings.NewReader(`{"title":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteHandler(t *testing.T) {
	router := newBookRouter(&stubBookService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/books/1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := `{"message":"Book deleted successfully"}`
	if rec.Body.String() != want {
		t.Fatalf("body = %s, want %s", rec.Body.String(), want)
	}
}

func TestDeleteHandlerNotFound(t *testing.T) {
	router := newBookRouter(&stubBookService{err: ErrNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/books/1", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

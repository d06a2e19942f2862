package catalog

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// BookService は蔵書CRUDを提供するサービスが実装します。
type BookService interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id int64) (*Book, error)
	Create(ctx context.Context, input CreateBookInput) (*Book, error)
	Update(ctx context.Context, id int64, input UpdateBookInput) (*Book, error)
	Delete(ctx context.Context, id int64) error
}

// ListHandler は GET /api/books のハンドラーを返します。
func ListHandler(svc BookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := svc.List(c.Request.Context())
		if err != nil {
			respondWithError(c, err, "Failed to fetch books")
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

// GetHandler は GET /api/books/:id のハンドラーを返します。
func GetHandler(svc BookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		book, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondWithError(c, err, "Failed to fetch book")
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

// CreateHandler は POST /api/books のハンドラーを返します。
func CreateHandler(svc BookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateBookInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title and author are required"})
			return
		}
		book, err := svc.Create(c.Request.Context(), input)
		if err != nil {
			respondWithError(c, err, "Failed to create book")
			return
		}
		c.JSON(http.StatusCreated, book)
	}
}

// UpdateHandler は PUT /api/books/:id のハンドラーを返します。
func UpdateHandler(svc BookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var input UpdateBookInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		book, err := svc.Update(c.Request.Context(), id, input)
		if err != nil {
			respondWithError(c, err, "Failed to update book")
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

// DeleteHandler は DELETE /api/books/:id のハンドラーを返します。
func DeleteHandler(svc BookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondWithError(c, err, "Failed to delete book")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
	}
}

// parseID はパスパラメータのIDを解釈します。数値でない場合は
// 該当レコードが存在し得ないため 404 を返します。
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return 0, false
	}
	return id, true
}

// respondWithError はサービス層のエラーをHTTPステータスに変換します。
// ストア由来の未分類エラーは内部詳細を漏らさず一般的な500として返します。
func respondWithError(c *gin.Context, err error, fallback string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
	case errors.Is(err, ErrDuplicateISBN):
		c.JSON(http.StatusConflict, gin.H{"error": "A book with this ISBN already exists"})
	default:
		log.Printf("catalog: %s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

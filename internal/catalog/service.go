// Package catalog は蔵書のCRUD操作を提供します。
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Service は蔵書テーブルに対する操作をまとめた構造体です。
type Service struct {
	db *sql.DB
}

// NewService は Service を作成します。
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

const bookColumns = "id, title, author, isbn, genre, published_year, available, created_at, updated_at"

// List は全蔵書をストアの自然順で返します。ページネーションは行いません。
func (s *Service) List(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+bookColumns+" FROM books")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var b Book
		if err := scanBook(rows.Scan, &b); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Get は指定IDの蔵書を返します。存在しない場合は ErrNotFound を返します。
func (s *Service) Get(ctx context.Context, id int64) (*Book, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE id = ?", id)
	var b Book
	if err := scanBook(row.Scan, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create は蔵書を登録します。ISBNが既に登録済みの場合は ErrDuplicateISBN を返します。
func (s *Service) Create(ctx context.Context, input CreateBookInput) (*Book, error) {
	if err := validateRequired(input.Title, input.Author); err != nil {
		return nil, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO books (title, author, isbn, genre, published_year, available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Title, input.Author, input.ISBN, input.Genre, input.PublishedYear, available, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateISBN
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Update は指定IDの蔵書を更新します。nil のフィールドは変更しません。
// 存在しない場合は何も変更せずに ErrNotFound を返します。
func (s *Service) Update(ctx context.Context, id int64, input UpdateBookInput) (*Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.ISBN != nil {
		book.ISBN = input.ISBN
	}
	if input.Genre != nil {
		book.Genre = input.Genre
	}
	if input.PublishedYear != nil {
		book.PublishedYear = input.PublishedYear
	}
	if input.Available != nil {
		book.Available = *input.Available
	}
	if err := validateRequired(book.Title, book.Author); err != nil {
		return nil, err
	}
	book.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE books
		SET title = ?, author = ?, isbn = ?, genre = ?, published_year = ?, available = ?, updated_at = ?
		WHERE id = ?`,
		book.Title, book.Author, book.ISBN, book.Genre, book.PublishedYear, book.Available, book.UpdatedAt, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateISBN
		}
		return nil, err
	}
	return book, nil
}

// Delete は指定IDの蔵書を削除します。存在しない場合は ErrNotFound を返します。
func (s *Service) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateRequired(title, author string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Message: "Title is required"}
	}
	if strings.TrimSpace(author) == "" {
		return &ValidationError{Message: "Author is required"}
	}
	return nil
}

func scanBook(scan func(dest ...any) error, b *Book) error {
	return scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Genre, &b.PublishedYear,
		&b.Available, &b.CreatedAt, &b.UpdatedAt)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

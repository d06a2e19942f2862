// Package checkout は貸出・返却のライフサイクルを管理する内部サービスです。
// HTTPエンドポイントは持たず、将来のエンドポイント層から利用される前提です。
package checkout

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Service は貸出テーブルに対する操作をまとめた構造体です。
type Service struct {
	db *sql.DB
}

// NewService は Service を作成します。
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

const checkoutColumns = "id, user_id, book_id, checkout_date, due_date, return_date, is_returned"

// Checkout は貸出レコードを作成します。参照先の利用者と蔵書の存在を
// 事前に確認し、存在しない場合は ErrUnknownUser / ErrUnknownBook を返します。
func (s *Service) Checkout(ctx context.Context, userID, bookID int64, dueDate time.Time) (*Checkout, error) {
	if dueDate.IsZero() {
		return nil, ErrDueDateRequired
	}
	if err := s.ensureExists(ctx, "users", userID, ErrUnknownUser); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, "books", bookID, ErrUnknownBook); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO checkouts (user_id, book_id, checkout_date, due_date, is_returned)
		VALUES (?, ?, ?, ?, 0)`,
		userID, bookID, now, dueDate.UTC())
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Checkout{
		ID:           id,
		UserID:       userID,
		BookID:       bookID,
		CheckoutDate: now,
		DueDate:      dueDate.UTC(),
		IsReturned:   false,
	}, nil
}

// Return は貸出を返却済みにします。返却済みの貸出に対しては
// ErrAlreadyReturned を返します。
func (s *Service) Return(ctx context.Context, id int64) (*Checkout, error) {
	co, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if co.IsReturned {
		return nil, ErrAlreadyReturned
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		UPDATE checkouts SET return_date = ?, is_returned = 1 WHERE id = ?`,
		now, id)
	if err != nil {
		return nil, err
	}
	co.ReturnDate = &now
	co.IsReturned = true
	return co, nil
}

// Get は指定IDの貸出を返します。存在しない場合は ErrNotFound を返します。
func (s *Service) Get(ctx context.Context, id int64) (*Checkout, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+checkoutColumns+" FROM checkouts WHERE id = ?", id)
	var co Checkout
	if err := scanCheckout(row.Scan, &co); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &co, nil
}

// ListOverdue は asOf 時点で返却期限を過ぎている未返却の貸出を返します。
func (s *Service) ListOverdue(ctx context.Context, asOf time.Time) ([]Checkout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+checkoutColumns+` FROM checkouts
		WHERE is_returned = 0 AND due_date < ?`,
		asOf.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overdue := []Checkout{}
	for rows.Next() {
		var co Checkout
		if err := scanCheckout(rows.Scan, &co); err != nil {
			return nil, err
		}
		overdue = append(overdue, co)
	}
	return overdue, rows.Err()
}

func (s *Service) ensureExists(ctx context.Context, table string, id int64, missing error) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return missing
	}
	return err
}

func scanCheckout(scan func(dest ...any) error, co *Checkout) error {
	return scan(&co.ID, &co.UserID, &co.BookID, &co.CheckoutDate, &co.DueDate,
		&co.ReturnDate, &co.IsReturned)
}

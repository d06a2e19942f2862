package checkout

import (
	"errors"
	"time"
)

// Checkout は貸出1件のレコードを表します。
// UserID と BookID はソフト参照であり、外部キー制約ではなく
// 貸出作成時の存在確認で整合性を担保します。
type Checkout struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	BookID       int64      `json:"bookId"`
	CheckoutDate time.Time  `json:"checkoutDate"`
	DueDate      time.Time  `json:"dueDate"`
	ReturnDate   *time.Time `json:"returnDate"`
	IsReturned   bool       `json:"isReturned"`
}

var (
	// ErrNotFound は該当する貸出レコードが存在しないことを表します。
	ErrNotFound = errors.New("checkout not found")

	// ErrUnknownUser は参照先の利用者が存在しないことを表します。
	ErrUnknownUser = errors.New("user does not exist")

	// ErrUnknownBook は参照先の蔵書が存在しないことを表します。
	ErrUnknownBook = errors.New("book does not exist")

	// ErrAlreadyReturned は返却済みの貸出への再返却を表します。
	ErrAlreadyReturned = errors.New("checkout already returned")

	// ErrDueDateRequired は返却期限の未指定を表します。
	ErrDueDateRequired = errors.New("due date is required")
)

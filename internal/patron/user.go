package patron

import (
	"errors"
	"time"
)

// User は利用者1名のレコードを表します。
// PasswordHash には常にハッシュ済みの資格情報のみが入り、
// 平文パスワードは保持もログ出力もされません。
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	MembershipDate time.Time `json:"membershipDate"`
	IsActive       bool      `json:"isActive"`
	PasswordHash   string    `json:"-"`
}

var (
	// ErrNotFound は該当する利用者が存在しないことを表します。
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken はメールアドレスの一意制約違反を表します。
	ErrEmailTaken = errors.New("email already registered")
)

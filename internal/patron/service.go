// Package patron は利用者の登録と参照を提供します。
package patron

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// PasswordHasher は平文パスワードを一方向ハッシュに変換します。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// Service は利用者テーブルに対する操作をまとめた構造体です。
type Service struct {
	db     *sql.DB
	hasher PasswordHasher
}

// NewService は Service を作成します。
func NewService(db *sql.DB, hasher PasswordHasher) *Service {
	return &Service{db: db, hasher: hasher}
}

// Register は利用者を登録します。パスワードはハッシュ化してから保存し、
// メールアドレスが登録済みの場合は ErrEmailTaken を返します。
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, membership_date, is_active, password_hash)
		VALUES (?, ?, ?, 1, ?)`,
		name, email, now, hash)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &User{
		ID:             id,
		Name:           name,
		Email:          email,
		MembershipDate: now,
		IsActive:       true,
		PasswordHash:   hash,
	}, nil
}

// FindByEmail はメールアドレスで利用者を検索します。
// 存在しない場合は ErrNotFound を返します。
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, membership_date, is_active, password_hash
		FROM users WHERE email = ?`, email)

	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.MembershipDate, &u.IsActive, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

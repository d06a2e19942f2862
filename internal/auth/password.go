package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher はbcryptによるパスワードのハッシュ化と検証を提供します。
// コスト（ワークファクター）はオフライン総当たり攻撃への耐性を決めるため
// 設定で調整できます。
type Hasher struct {
	cost int
}

// NewHasher は Hasher を作成します。cost が範囲外の場合は
// bcryptのデフォルトコストを使用します。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードをソルト付きの一方向ハッシュに変換します。
// ソルトは呼び出しごとにランダムなため、同じ平文でも毎回異なる
// ハッシュが生成されます。
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify はハッシュに埋め込まれたソルトで平文を再計算し比較します。
// 比較自体はbcrypt内部の定数時間比較に委譲します。
// パスワード不一致は (false, nil) であり、エラーになるのは
// ハッシュ文字列が不正な場合のみです。
func (h *Hasher) Verify(plain, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// Package auth はパスワードの検証とセッションベースの認証を提供します。
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/library-catalog/internal/patron"
)

const (
	// SessionCookieName はセッションIDを運ぶクッキーの名前です。
	SessionCookieName = "lc_session"

	sessionKeyUserID   = "auth_user_id"
	sessionKeyName     = "auth_user_name"
	sessionKeyEmail    = "auth_user_email"
	sessionKeyIssuedAt = "issued_at"
)

// ContextIdentityKey は、ハンドラー間でログイン済み利用者の
// 情報を共有するためのキーです。
const ContextIdentityKey = "auth.identity"

// Identity はセッションに紐づく利用者の情報です。
type Identity struct {
	UserID int64
	Name   string
	Email  string
}

// UserDirectory はメールアドレスによる利用者検索を提供します。
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*patron.User, error)
}

// Manager は認証処理と状態をまとめた構造体です。
// セッションは発行時刻から一定時間で失効する絶対期限方式で、
// アクセスによる延長は行いません。
type Manager struct {
	users  UserDirectory
	hasher *Hasher
	ttl    time.Duration
}

// NewManager は認証マネージャーを作成します。
func NewManager(users UserDirectory, hasher *Hasher, ttl time.Duration) *Manager {
	return &Manager{
		users:  users,
		hasher: hasher,
		ttl:    ttl,
	}
}

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func (m *Manager) SessionMaxAgeSeconds() int {
	return int(m.ttl.Seconds())
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login は POST /api/login のハンドラーです。
// メールアドレス不明とパスワード不一致は、どちらが誤っていたかを
// 漏らさないよう同一のエラーとして返します。
func (m *Manager) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := m.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, patron.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("auth: failed to look up user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	ok, err := m.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		log.Printf("auth: failed to verify password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionKeyUserID, user.ID)
	session.Set(sessionKeyName, user.Name)
	session.Set(sessionKeyEmail, user.Email)
	session.Set(sessionKeyIssuedAt, time.Now().Unix())

	if err := session.Save(); err != nil {
		log.Printf("auth: failed to save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Logout は POST /api/logout のハンドラーです。
// セッションが存在しない・期限切れの場合も成功として扱います（冪等）。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		// ログアウトの意図（セッション終了）はベストエフォートで扱う
		log.Printf("auth: failed to delete session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RequireLogin はセッションを検証するミドルウェアを返します。
// 有効なセッションがない場合、後続のハンドラーを呼ばずに401で打ち切ります。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionKeyUserID).(int64)
		if !ok || userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
		if issuedAt.IsZero() || time.Since(issuedAt) > m.ttl {
			// 失効したセッションはサーバー側のレコードごと破棄する
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			_ = session.Save()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		name, _ := session.Get(sessionKeyName).(string)
		email, _ := session.Get(sessionKeyEmail).(string)
		c.Set(ContextIdentityKey, Identity{
			UserID: userID,
			Name:   name,
			Email:  email,
		})
		c.Next()
	}
}

// CurrentIdentity はミドルウェアが設定した利用者情報を取り出します。
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(ContextIdentityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}

// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/library-catalog/internal/auth"
	"github.com/yourusername/library-catalog/internal/catalog"
	"github.com/yourusername/library-catalog/internal/checkout"
	"github.com/yourusername/library-catalog/internal/config"
	"github.com/yourusername/library-catalog/internal/patron"
	"github.com/yourusername/library-catalog/internal/store"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// データベースを開き、マイグレーションを適用
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Printf("Connected to database at %s", cfg.DBPath)

	// サービス層の組み立て（明示的な依存注入）
	hasher := auth.NewHasher(cfg.BcryptCost)
	patrons := patron.NewService(db, hasher)
	books := catalog.NewService(db)
	checkouts := checkout.NewService(db)
	authManager := auth.NewManager(patrons, hasher, time.Duration(cfg.SessionTTLHours)*time.Hour)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	// セッションストアの設定（サーバーサイド保持、クッキーはIDのみ運ぶ）
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		// ローカル開発向けフォールバック。再起動でセッションは無効になる
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		log.Println("SESSION_SECRET is not set; using a random secret for this process")
	}
	sessionStore := memstore.NewStore(secret)
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   authManager.SessionMaxAgeSeconds(),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, sessionStore))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
	}
	router.Use(cors.New(corsConfig))

	// ルーティングの設定
	setupRoutes(router, authManager, books, patrons)

	// 延滞スキャンの起動（QUEUE_REDIS_URL 未設定時は無効）
	if cfg.QueueRedisURL != "" {
		manager, err := setupJobs(cfg, checkouts)
		if err != nil {
			log.Fatalf("Failed to set up overdue scan: %v", err)
		}
		if err := manager.Start(); err != nil {
			log.Fatalf("Failed to start overdue scan: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := manager.Shutdown(ctx); err != nil {
				log.Printf("Overdue scan shutdown error: %v", err)
			}
		}()
		log.Printf("Overdue scan scheduled (%s)", cfg.OverdueScanSpec)
	}

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "library-catalog-api",
		"version": "0.1.0",
	})
}

// setupRoutes は API グループと認証周りの配線を行います。
func setupRoutes(router *gin.Engine, authManager *auth.Manager, books catalog.BookService, patrons patron.Registrar) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	api := router.Group("/api")
	{
		// 登録とログインはセッション未生成でも叩ける
		api.POST("/register", patron.RegisterHandler(patrons))
		api.POST("/login", authManager.Login)
		// ログアウトは冪等（セッションがなくても成功扱い）なのでガード不要
		api.POST("/logout", authManager.Logout)

		// 蔵書エンドポイントは読み書きともに一律で認証を要求する
		booksGroup := api.Group("/books")
		booksGroup.Use(authManager.RequireLogin())
		{
			booksGroup.GET("", catalog.ListHandler(books))
			booksGroup.GET("/:id", catalog.GetHandler(books))
			booksGroup.POST("", catalog.CreateHandler(books))
			booksGroup.PUT("/:id", catalog.UpdateHandler(books))
			booksGroup.DELETE("/:id", catalog.DeleteHandler(books))
		}
	}
}

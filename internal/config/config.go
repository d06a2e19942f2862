// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// データベース設定
	DBPath string // SQLiteデータベースファイルのパス

	// セッション設定
	SessionSecret   string // セッション署名用の秘密鍵
	SessionTTLHours int    // セッションの絶対有効期限（時間）

	// パスワードハッシュ設定
	BcryptCost int // bcryptのコストパラメータ（0の場合はライブラリのデフォルト）

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// 延滞スキャン設定
	QueueRedisURL   string // Asynq用Redis接続URL（空の場合はスキャン無効）
	OverdueScanSpec string // 延滞スキャンの実行間隔（cron形式または @every 表記）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	// .env.local ファイルを読み込む（存在しない場合はスキップ）
	loadEnvFile()

	config := &Config{
		// サーバー設定
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// データベース設定
		DBPath: getEnv("DB_PATH", "library_system.db"),

		// セッション設定
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionTTLHours: getEnvAsInt("SESSION_TTL_HOURS", 24),

		// パスワードハッシュ設定
		BcryptCost: getEnvAsInt("BCRYPT_COST", 0),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		// 延滞スキャン設定
		QueueRedisURL:   getEnv("QUEUE_REDIS_URL", ""),
		OverdueScanSpec: getEnv("OVERDUE_SCAN_SPEC", "@every 1h"),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	// ローカル開発ではセッション秘密鍵は任意
	// 本番環境では厳格にチェックする想定
	if c.GinMode == "release" {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required in release mode")
		}
	}

	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}

	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

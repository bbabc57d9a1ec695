// Package config は環境変数（および任意の.envファイル）からアプリケーション設定を読み込む。
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvProduction は本番モードを表すAPP_ENVの値。
const EnvProduction = "production"

// Config はアプリケーション全体の設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// Env は実行モード（development, production など）。
	Env string
	// DBDriver はデータベースドライバ名（sqlite または postgres）。
	DBDriver string
	// DatabaseURL はデータベースの接続文字列。
	DatabaseURL string
	// AllowedOrigins はCORSで許可するオリジン。"*" は全オリジンを許可する。
	AllowedOrigins []string
}

// IsProduction は本番モードかどうかを返す。
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load はコマンドライン引数と環境変数から設定を読み込む。
// -config で指定された.envファイル、無ければカレントディレクトリの.envを読み込む。
// 既に設定済みの環境変数は.envの値で上書きされない。
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("media-api", flag.ContinueOnError)
	configPath := fs.String("config", "", "path env file")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("引数の解析に失敗: %w", err)
	}

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			return nil, fmt.Errorf("envファイルの読み込みに失敗 (%s): %w", *configPath, err)
		}
	} else {
		// .envが無いのは正常系。
		_ = godotenv.Load()
	}

	return &Config{
		Port:           getenv("PORT", "5000"),
		Env:            getenv("APP_ENV", "development"),
		DBDriver:       getenv("DB_DRIVER", "sqlite"),
		DatabaseURL:    getenv("DATABASE_URL", "media.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"),
		AllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}, nil
}

func getenv(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// splitList はカンマ区切りの文字列を分割し、空要素を除く。
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

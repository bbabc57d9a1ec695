// メディアAPIのエントリポイント。
// 映画・TV番組のCRUD APIを /api/media で提供する。
// 設定は環境変数（または.envファイル）から読み込む。
package main

import (
	"log"
	"os"

	"github.com/nao1215/media-api/internal/config"
	"github.com/nao1215/media-api/internal/media"
	"github.com/nao1215/media-api/pkg/database"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	driver, err := database.ParseDriver(cfg.DBDriver)
	if err != nil {
		logger.Fatal("データベース設定が不正です", zap.Error(err))
	}

	db, err := database.Open(driver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("データベースのクローズに失敗", zap.Error(err))
		}
	}()

	if err := media.InitSchema(db, driver, logger); err != nil {
		logger.Fatal("スキーマ初期化に失敗", zap.Error(err))
	}

	server := media.NewServer(cfg, db, logger)

	logger.Info("メディアAPIを起動します",
		zap.String("url", "http://localhost:"+cfg.Port+"/api/media"),
		zap.String("env", cfg.Env),
		zap.String("db_driver", string(driver)),
	)
	if err := server.Run(); err != nil {
		logger.Fatal("メディアAPIの起動に失敗", zap.Error(err))
	}
}

// newLogger は実行モードに応じたロガーを生成する。
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

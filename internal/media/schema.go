package media

import (
	"embed"
	"fmt"

	"github.com/nao1215/media-api/pkg/database"
	"github.com/nao1215/media-api/pkg/migration"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationsFS embed.FS

// InitSchema はドライバに対応するマイグレーションを実行してmediaテーブルを作成する。
func InitSchema(db *gorm.DB, driver database.Driver, logger *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("データベース接続の取得に失敗: %w", err)
	}

	dialect := migration.DialectSQLite
	if driver == database.DriverPostgres {
		dialect = migration.DialectPostgres
	}

	return migration.Run(sqlDB, migrationsFS, "migrations/"+string(dialect), dialect, logger)
}

// Package database はGORMクライアントの生成を提供する。
//
// database/sqlの接続（SQLiteはmodernc.org/sqlite、PostgreSQLはlib/pq）を先に開き、
// それをGORMのDialectorに渡す。マイグレーションは同じ*sql.DBに対して実行できる。
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Driver は接続先データベースの種類を表す。
type Driver string

const (
	// DriverSQLite はSQLite（modernc.org/sqlite）を表す。
	DriverSQLite Driver = "sqlite"
	// DriverPostgres はPostgreSQL（lib/pq）を表す。
	DriverPostgres Driver = "postgres"
)

// ParseDriver は文字列からDriverを取得する。空文字列はSQLiteとして扱う。
func ParseDriver(s string) (Driver, error) {
	switch Driver(s) {
	case "", DriverSQLite:
		return DriverSQLite, nil
	case DriverPostgres:
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("未対応のデータベースドライバです: %q", s)
	}
}

// Open はデータベースに接続し、GORMクライアントを返す。
// タイムスタンプはUTCで記録する。
func Open(driver Driver, dsn string) (*gorm.DB, error) {
	sqlDB, err := openSQL(driver, dsn)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	default:
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: sqlDB})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("GORMの初期化に失敗: %w", err)
	}
	return db, nil
}

// openSQL はdatabase/sqlの接続を開き、疎通確認を行う。
func openSQL(driver Driver, dsn string) (*sql.DB, error) {
	driverName := "sqlite"
	if driver == DriverPostgres {
		driverName = "postgres"
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	// SQLiteは書き込みが直列化されるため接続を1本に絞る。
	// インメモリDBを全クエリで共有する目的もある。
	if driver != DriverPostgres {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("データベースの疎通確認に失敗: %w", err)
	}
	return sqlDB, nil
}

// Close はGORMクライアントが保持する接続を閉じる。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("接続の取得に失敗: %w", err)
	}
	return sqlDB.Close()
}

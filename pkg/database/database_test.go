package database

import (
	"testing"

	moderncsqlite "modernc.org/sqlite"
)

// TestParseDriver はParseDriver関数を検証する。
func TestParseDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Driver
		wantErr bool
	}{
		{name: "空文字列はSQLite", input: "", want: DriverSQLite},
		{name: "sqlite", input: "sqlite", want: DriverSQLite},
		{name: "postgres", input: "postgres", want: DriverPostgres},
		{name: "未対応のドライバ", input: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDriver(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDriver(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDriver(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestOpen はOpen関数を検証する。
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("インメモリSQLiteに接続できること", func(t *testing.T) {
		t.Parallel()

		db, err := Open(DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("Open()でエラーが発生: %v", err)
		}
		t.Cleanup(func() {
			if err := Close(db); err != nil {
				t.Errorf("Close()でエラーが発生: %v", err)
			}
		})

		var got int
		if err := db.Raw("SELECT 1").Scan(&got).Error; err != nil {
			t.Fatalf("クエリの実行に失敗: %v", err)
		}
		if got != 1 {
			t.Errorf("SELECT 1 = %d, want 1", got)
		}
	})

	t.Run("SQLiteの接続数が1に制限されていること", func(t *testing.T) {
		t.Parallel()

		db, err := Open(DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("Open()でエラーが発生: %v", err)
		}
		t.Cleanup(func() { _ = Close(db) })

		sqlDB, err := db.DB()
		if err != nil {
			t.Fatalf("DB()でエラーが発生: %v", err)
		}
		if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
			t.Errorf("MaxOpenConnections = %d, want 1", got)
		}
	})

	t.Run("SQLiteの接続にはmodernc.org/sqliteのドライバが使われること", func(t *testing.T) {
		t.Parallel()

		db, err := Open(DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("Open()でエラーが発生: %v", err)
		}
		t.Cleanup(func() { _ = Close(db) })

		sqlDB, err := db.DB()
		if err != nil {
			t.Fatalf("DB()でエラーが発生: %v", err)
		}
		if _, ok := sqlDB.Driver().(*moderncsqlite.Driver); !ok {
			t.Errorf("ドライバ = %T, want *sqlite.Driver (modernc.org/sqlite)", sqlDB.Driver())
		}
	})
}

package media

import "time"

// Type はメディアの種類を表す。
type Type string

const (
	// TypeMovie は映画を表す。
	TypeMovie Type = "Movie"
	// TypeTVShow はTV番組を表す。
	TypeTVShow Type = "TV Show"
)

// Media はmediaテーブルの1レコードを表す。
type Media struct {
	// ID はストアが採番する一意識別子。再利用されない。
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	// Title はタイトル。
	Title string `gorm:"not null" json:"title"`
	// Type はメディアの種類（Movie または TV Show）。
	Type Type `gorm:"not null" json:"type"`
	// Director は監督名。
	Director string `gorm:"not null" json:"director"`
	// Budget は予算。数値としては検証しない自由記述。
	Budget string `gorm:"not null" json:"budget"`
	// Location は撮影地。
	Location string `gorm:"not null" json:"location"`
	// Duration は上映時間・放送時間。
	Duration string `gorm:"not null" json:"duration"`
	// YearTime は公開年・放送期間。
	YearTime string `gorm:"column:year_time;not null" json:"yearTime"`
	// ImageURL はポスター画像のURL。未設定の場合はnull。
	ImageURL *string `gorm:"column:image_url" json:"imageUrl"`
	// CreatedAt は作成日時。一覧の並び順に使う。
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt は最終更新日時。
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName はGORMが使用するテーブル名を返す。
func (Media) TableName() string {
	return "media"
}

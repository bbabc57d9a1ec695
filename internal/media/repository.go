package media

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound は指定されたIDのメディアが存在しないことを表す。
// 想定内の結果であり、内部エラーとしては扱わない。
var ErrNotFound = errors.New("media not found")

// Page は一覧取得の結果。
type Page struct {
	// Media はcreatedAtの降順に並んだ1ページ分のレコード。
	Media []Media
	// Total はテーブル全体の件数。
	Total int64
}

// Repository はmediaテーブルへのCRUD操作を提供する。
type Repository struct {
	db *gorm.DB
}

// NewRepository は新しいRepositoryを生成する。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create はメディアを1件作成し、採番されたIDと作成日時を含むレコードを返す。
func (r *Repository) Create(ctx context.Context, in CreateInput) (*Media, error) {
	m := in.toMedia()
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "メディアの作成に失敗")
	}
	return &m, nil
}

// List は1ページ分のメディアと総件数を同一トランザクション内で取得する。
func (r *Repository) List(ctx context.Context, p Pagination) (*Page, error) {
	page := &Page{Media: []Media{}}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("created_at DESC").Order("id DESC").
			Offset(p.Offset()).Limit(p.Limit).
			Find(&page.Media).Error; err != nil {
			return err
		}
		return tx.Model(&Media{}).Count(&page.Total).Error
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "メディア一覧の取得に失敗")
	}
	return page, nil
}

// Get は指定されたIDのメディアを返す。存在しない場合はErrNotFoundを返す。
func (r *Repository) Get(ctx context.Context, id int64) (*Media, error) {
	var m Media
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, pkgerrors.Wrap(err, "メディアの取得に失敗")
	}
	return &m, nil
}

// Update は指定されたフィールドのみを部分更新し、更新後のレコードを返す。
// 存在しない場合はErrNotFoundを返す。
func (r *Repository) Update(ctx context.Context, id int64, in UpdateInput) (*Media, error) {
	var m Media
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}

		cols := in.columns()
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(&Media{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}

		m = Media{}
		return tx.First(&m, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, pkgerrors.Wrap(err, "メディアの更新に失敗")
	}
	return &m, nil
}

// Delete は指定されたIDのメディアを物理削除する。存在しない場合はErrNotFoundを返す。
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Media{}, id)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "メディアの削除に失敗")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

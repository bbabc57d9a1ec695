package media

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/media-api/internal/config"
	"github.com/nao1215/media-api/pkg/apperror"
	"github.com/nao1215/media-api/pkg/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// basePath はメディアAPIのベースパス。
const basePath = "/api/media"

var (
	// errInvalidID はパスパラメータ :id が整数でないことを表す。
	errInvalidID = apperror.New(apperror.KindBadRequest, "Invalid media ID")
	// errMediaNotFound は対象のメディアが存在しないことを表す。
	errMediaNotFound = apperror.New(apperror.KindNotFound, "Media not found")
)

// Server はメディアAPIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// repo はmediaテーブルへのアクセスを担う。
	repo *Repository
}

// NewServer は新しいメディアAPIサーバーを生成する。
// データベース接続は呼び出し側で生成し、スキーマを適用したうえで渡すこと。
func NewServer(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler(logger, !cfg.IsProduction()))
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	s := &Server{
		router: router,
		port:   cfg.Port,
		repo:   NewRepository(db),
	}
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Handler はルーティング済みのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	media := s.router.Group(basePath)
	{
		// メディア作成
		media.POST("", s.handleCreate())
		// メディア一覧取得（ページング）
		media.GET("", s.handleList())
		// メディア詳細取得
		media.GET("/:id", s.handleGetByID())
		// メディア部分更新
		media.PUT("/:id", s.handleUpdate())
		// メディア削除
		media.DELETE("/:id", s.handleDelete())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "media-api"})
	})
}

// listMeta は一覧レスポンスのページ情報。
type listMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// listResponse は一覧取得のレスポンス。
type listResponse struct {
	Data []Media  `json:"data"`
	Meta listMeta `json:"meta"`
}

// handleCreate はメディア作成を処理するハンドラを返す。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			s.respondError(c, err)
			return
		}

		in, err := ParseCreate(body)
		if err != nil {
			s.respondError(c, err)
			return
		}

		created, err := s.repo.Create(c.Request.Context(), in)
		if err != nil {
			s.respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

// handleList はメディア一覧取得を処理するハンドラを返す。
// クエリパラメータ page, limit でページを指定する。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := ParsePagination(c.Request.URL.Query())
		if err != nil {
			s.respondError(c, err)
			return
		}

		page, err := s.repo.List(c.Request.Context(), p)
		if err != nil {
			s.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, listResponse{
			Data: page.Media,
			Meta: listMeta{
				Total:      page.Total,
				Page:       p.Page,
				Limit:      p.Limit,
				TotalPages: p.TotalPages(page.Total),
			},
		})
	}
}

// handleGetByID は指定されたIDのメディア詳細を返すハンドラ。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			s.respondError(c, err)
			return
		}

		m, err := s.repo.Get(c.Request.Context(), id)
		if err != nil {
			s.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, m)
	}
}

// handleUpdate はメディアの部分更新を処理するハンドラを返す。
// リクエストボディに含まれるフィールドのみを更新する。
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			s.respondError(c, err)
			return
		}

		body, err := c.GetRawData()
		if err != nil {
			s.respondError(c, err)
			return
		}

		in, err := ParseUpdate(body)
		if err != nil {
			s.respondError(c, err)
			return
		}

		updated, err := s.repo.Update(c.Request.Context(), id, in)
		if err != nil {
			s.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// handleDelete はメディアの削除を処理するハンドラを返す。
// 成功時はボディなしの204を返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			s.respondError(c, err)
			return
		}

		if err := s.repo.Delete(c.Request.Context(), id); err != nil {
			s.respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// parseID はパスパラメータ :id を10進の整数として取得する。
// 整数として正しいがint64に収まらない値は採番され得ないため、ErrNotFoundを返す。
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrNotFound
		}
		return 0, errInvalidID
	}
	return id, nil
}

// respondError は想定内のエラー（検証エラー、不正なID、存在しない）をその場でレスポンスに変換する。
// 内部エラーはエラーハンドリングミドルウェアに委ねる。
func (s *Server) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		err = errMediaNotFound
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		c.JSON(apperror.KindValidation.StatusCode(), gin.H{"errors": verr.Errors})
		return
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind != apperror.KindInternal {
		c.JSON(appErr.StatusCode(), gin.H{"message": appErr.Message})
		return
	}

	_ = c.Error(apperror.Wrap(apperror.KindInternal, err))
}

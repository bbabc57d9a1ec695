// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// リクエストIDの付与、リクエストログ、パニックリカバリ、
// エラーレスポンスの一元生成、CORS設定を含む。
package middleware

// Package media はメディア（映画・TV番組）のCRUD APIを提供する。
//
// リクエストの検証、GORMによる永続化、JSONレスポンスの生成を担当する。
// 一覧はcreatedAtの降順でページングして返す。
package media

// Package apperror はHTTP境界で使用するエラー分類を提供する。
//
// ハンドラはエラーをKindで分類し、エラーハンドリングミドルウェアが
// Kindに対応するステータスコードでレスポンスを生成する。
package apperror

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Kind はエラーの分類を表す。
type Kind int

const (
	// KindInternal は想定外のエラー（ストアの障害など）を表す。
	KindInternal Kind = iota
	// KindValidation は入力値の検証エラーを表す。
	KindValidation
	// KindBadRequest はパスパラメータなどリクエスト自体の不正を表す。
	KindBadRequest
	// KindNotFound は対象リソースが存在しないことを表す。
	KindNotFound
)

// String はKindの名前を返す。
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// StatusCode はKindに対応するHTTPステータスコードを返す。
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error は分類付きのエラー。
type Error struct {
	// Kind はエラーの分類。
	Kind Kind
	// Message はクライアントに返すメッセージ。
	Message string
	// Err は原因となったエラー。
	Err error
}

// Error はエラーメッセージを返す。
func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

// Unwrap は原因となったエラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// Format はfmt.Formatterを実装する。
// %+v の場合は原因エラーを %+v で展開し、スタックトレースを含める。
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.Err != nil {
		fmt.Fprintf(s, "%s: %+v", e.Error(), e.Err)
		return
	}
	_, _ = io.WriteString(s, e.Error())
}

// StatusCode はエラーに対応するHTTPステータスコードを返す。
func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

// New は分類付きのエラーを生成する。
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap は原因エラーに分類を付与する。
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// StatusCode はエラーが持つステータスコードを返す。
// 分類付きのエラーでなければ500を返す。
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// Package httpclient はJSON APIを呼び出すHTTPクライアントを提供する。
//
// メディアAPIを他のGoプログラムやエンドツーエンドテストから呼び出す際に使用する。
// 2xx以外の応答は*StatusErrorとして返し、ステータスコードとボディを保持する。
package httpclient

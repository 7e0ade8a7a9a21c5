// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザーが入力したテキスト（投稿本文、メッセージ、
// コメント、bio）をサニタイズし、XSS攻撃などのセキュリティリスクから
// 他の家族メンバーを保護する。bluemondayライブラリを使用した
// 許可リストベースのポリシーで、安全なタグのみを通過させる。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェースを定義する。
// 投稿・メッセージ・コメント・bioの保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力テキストをサニタイズして安全なテキストを返す。
	// br以外の全HTMLタグ、scriptおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 投稿やメッセージはプレーンテキストとして扱うため、改行表現のbrのみを許可し、
// それ以外のタグはすべて除去する。
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("br")

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize は入力テキストをサニタイズして安全なテキストを返す。
// 前後の空白は取り除く。
func (s *contentSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

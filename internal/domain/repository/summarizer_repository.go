package repository

import "context"

// SummarizerRepository はエントリの要約を生成するインターフェース
type SummarizerRepository interface {
	// Summarize はエントリを要約します
	// title: 記事タイトル
	// link: 記事URL
	// htmlSnippet: フィードの概要（HTMLを含む場合がある）
	// 戻り値: 要約文字列, エラー
	Summarize(ctx context.Context, title, link, htmlSnippet string) (string, error)
}

package security

import (
	"strings"
	"testing"
)

// TestSanitize_PlainTextPassesThrough は通常のテキストがそのまま通過することを検証する。
func TestSanitize_PlainTextPassesThrough(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "日本語テキスト",
			input: "今日は家族で公園に行きました",
			want:  "今日は家族で公園に行きました",
		},
		{
			name:  "brタグは改行表現として許可される",
			input: "行1<br>行2",
			want:  "行1<br>行2",
		},
		{
			name:  "前後の空白は除去される",
			input: "  お祈りをお願いします  ",
			want:  "お祈りをお願いします",
		},
		{
			name:  "空文字列",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_ForbiddenContent は危険なタグ・属性が除去されることを検証する。
func TestSanitize_ForbiddenContent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name         string
		input        string
		wantAbsent   []string
		wantContains []string
	}{
		{
			name:         "scriptタグが除去される",
			input:        `テスト<script>alert('xss')</script>安全`,
			wantAbsent:   []string{"<script", "</script>", "alert"},
			wantContains: []string{"テスト", "安全"},
		},
		{
			name:         "pタグはプレーンテキスト扱いで除去される",
			input:        "<p>段落</p>",
			wantAbsent:   []string{"<p>", "</p>"},
			wantContains: []string{"段落"},
		},
		{
			name:         "aタグが除去されテキストは残る",
			input:        `<a href="https://example.com">リンク</a>`,
			wantAbsent:   []string{"<a", "href"},
			wantContains: []string{"リンク"},
		},
		{
			name:         "onerrorイベント属性付きimgが除去される",
			input:        `<img src="x" onerror="alert(1)">写真`,
			wantAbsent:   []string{"<img", "onerror"},
			wantContains: []string{"写真"},
		},
		{
			name:       "iframeが除去される",
			input:      `<iframe src="https://evil.example.com"></iframe>`,
			wantAbsent: []string{"<iframe", "evil.example.com"},
		},
		{
			name:         "styleタグが除去される",
			input:        `<style>body{display:none}</style>こんにちは`,
			wantAbsent:   []string{"<style", "display:none"},
			wantContains: []string{"こんにちは"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("Sanitize(%q) = %q, should not contain %q", tt.input, got, absent)
				}
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, expected to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitize_Idempotent は同一入力に対して出力が安定していることを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()
	input := `家族のみんな<br><script>alert(1)</script>へ`

	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)

	if first != second {
		t.Errorf("Sanitize is not idempotent: first = %q, second = %q", first, second)
	}
}

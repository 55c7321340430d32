// Package main provides localization for the framefx CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Apply frame transforms to videos and build verifiable public records.": "動画の各フレームに変換を適用し、検証可能な公開レコードを作成します。",

		// Error kinds
		"decode failure":           "デコード失敗",
		"invalid operation code":   "不正な操作コード",
		"frame extraction failure": "フレーム抽出失敗",
		"encode failure":           "エンコード失敗",
		"interrupted":              "中断",
		"run failed":               "実行失敗",

		// Inspect command
		"Operation: %d (%s)":       "操作: %d (%s)",
		"Output text: %d chars":    "出力テキスト: %d 文字",
		"Record size: %d bytes":    "レコードサイズ: %d バイト",
		"Keccak-256: %s":           "Keccak-256: %s",
		"Video: %s %dx%d %.2f fps": "動画: %s %dx%d %.2f fps",
		"Video: %d bytes (%v)":     "動画: %d バイト (%v)",

		// Version command
		"framefx version %s": "framefx バージョン %s",
	})
}

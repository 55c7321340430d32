package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting run %s (%s)":          "実行 %s を開始します (%s)",
		"Run %s completed successfully": "実行 %s が正常に完了しました",
		"Record saved to %s":            "レコードを %s に保存しました",
		"Video saved to %s":             "動画を %s に保存しました",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Record digest: %s":             "レコードダイジェスト: %s",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Decode stage
		"Decoding %d bytes of input":              "%d バイトの入力をデコード中",
		"Decoded %d frames (%dx%d, %s, %.2f fps)": "%d フレームをデコードしました (%dx%d, %s, %.2f fps)",

		// Transform stage
		"Transforming %d frames (%s) with %d workers": "%d フレームを変換中 (%s, %d ワーカー)",
		"Transform completed":                         "変換が完了しました",

		// Encode stage
		"Encoding %d frames at %.1f fps": "%d フレームを %.1f fps でエンコード中",
		"Video encoded: %d bytes":        "動画エンコード完了: %d バイト",
		"Encoding completed":             "エンコードが完了しました",

		// Codec selection
		"Using %s decoder": "%s デコーダーを使用します",
		"Using %s encoder": "%s エンコーダーを使用します",

		// Warnings
		"H.264 encoder not available, falling back to raw": "H.264 エンコーダーが利用できないため raw にフォールバックします",
		"Failed to save debug frame %d: %v":                "デバッグフレーム %d の保存に失敗しました: %v",
		"Failed to save debug output: %v":                  "デバッグ出力の保存に失敗しました: %v",

		// Errors
		"Run failed (%s): %v":         "実行に失敗しました (%s): %v",
		"Failed to write output: %s":  "出力の書き込みに失敗しました: %s",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",
	})
}

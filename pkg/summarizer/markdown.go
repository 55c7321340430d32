package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# Transform Summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", s.GeneratedAt.Format(time.RFC3339))
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run ID: `%s`\n", s.RunID)
	}
	b.WriteString("\n")

	b.WriteString("## Operation\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Code | %d |\n", s.Operation.Code)
	fmt.Fprintf(&b, "| Name | %s |\n", orDash(s.Operation.Name))
	b.WriteString("\n")

	b.WriteString("## Input\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Codec | %s |\n", orDash(s.Input.Codec))
	fmt.Fprintf(&b, "| Frame Size | %dx%d |\n", s.Input.Width, s.Input.Height)
	fmt.Fprintf(&b, "| Frame Rate | %.2f fps |\n", s.Input.FPS)
	fmt.Fprintf(&b, "| Frames | %d |\n", s.Input.FrameCount)
	fmt.Fprintf(&b, "| Container Size | %s |\n", FormatBytes(int64(s.Input.InputSize)))
	b.WriteString("\n")

	b.WriteString("## Output\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Codec | %s |\n", orDash(s.Output.Codec))
	fmt.Fprintf(&b, "| Frames | %d |\n", s.Output.FrameCount)
	fmt.Fprintf(&b, "| Duration | %s |\n", FormatDuration(s.Output.DurationMs))
	fmt.Fprintf(&b, "| File Size | %s |\n", FormatBytes(s.Output.FileSize))
	b.WriteString("\n")

	b.WriteString("## Public Record\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Encoded Size | %d bytes |\n", s.Record.Size)
	fmt.Fprintf(&b, "| Output Text | %d chars |\n", s.Record.OutputSize)
	fmt.Fprintf(&b, "| Keccak-256 | `%s` |\n", orDash(s.Record.Digest))
	b.WriteString("\n")

	b.WriteString("## Settings\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Workers | %s |\n", formatWorkers(s.Settings.Workers))
	fmt.Fprintf(&b, "| Quality (CRF) | %d |\n", s.Settings.Quality)
	fmt.Fprintf(&b, "| Bitrate | %s |\n", formatBitrate(s.Settings.Bitrate))

	return b.String()
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.2f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(unit*unit))
	}
}

// FormatDuration renders milliseconds as seconds.
func FormatDuration(ms int) string {
	return fmt.Sprintf("%.2f s", float64(ms)/1000)
}

func formatWorkers(n int) string {
	if n <= 0 {
		return "auto"
	}
	return fmt.Sprintf("%d", n)
}

func formatBitrate(kbps int) string {
	if kbps <= 0 {
		return "auto"
	}
	return fmt.Sprintf("%d kbps", kbps)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var _ Formatter = (*MarkdownFormatter)(nil)

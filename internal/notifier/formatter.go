package notifier

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"MarketAnalyst/internal/model"
)

// MaxMessageLength keeps chunks below Telegram's 4096 character limit.
const MaxMessageLength = 4000

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// FormatReport renders a report as Telegram HTML messages, split at line
// boundaries so each chunk fits in one message.
func FormatReport(r *model.Report) []string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>MarketAnalyst</b> | %s\n\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04")))
	b.WriteString(MarkdownToHTML(r.SummaryText))
	return SplitMessage(b.String(), MaxMessageLength)
}

// MarkdownToHTML converts the narrative's markdown subset (headings and
// **bold**) into Telegram HTML, escaping everything else.
func MarkdownToHTML(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		escaped := html.EscapeString(line)
		if trimmed := strings.TrimLeft(escaped, "#"); len(trimmed) < len(escaped) && strings.HasPrefix(trimmed, " ") {
			heading := boldPattern.ReplaceAllString(strings.TrimSpace(trimmed), "$1")
			lines[i] = "<b>" + heading + "</b>"
			continue
		}
		lines[i] = boldPattern.ReplaceAllString(escaped, "<b>$1</b>")
	}
	return strings.Join(lines, "\n")
}

// SplitMessage breaks text into chunks of at most limit characters,
// preferring line boundaries.
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var (
		chunks []string
		cur    strings.Builder
		size   int
	)
	flush := func() {
		if size > 0 {
			chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			size = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		cur.WriteString(line)
		size += n
	}
	flush()
	return chunks
}

// FormatCompanies lists the companies a report can be requested for.
func FormatCompanies(companies []string) string {
	if len(companies) == 0 {
		return "No companies available."
	}
	var b strings.Builder
	b.WriteString("🏢 <b>Companies</b>\n")
	for _, c := range companies {
		b.WriteString(fmt.Sprintf("• %s\n", html.EscapeString(c)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return strings.Join([]string{
		"🤖 <b>MarketAnalyst</b> commands:",
		"/report &lt;company&gt; - generate a fresh report",
		"/latest &lt;company&gt; - show the last stored report",
		"/companies - list available companies",
		"/help - show this message",
	}, "\n")
}

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(22)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner(w io.Writer) {
	fmt.Fprintln(w, titleStyle.Render("📈 StockAnalyzer - daily returns from Alpha Vantage"))
}

func printSection(w io.Writer, title string) {
	fmt.Fprintln(w, sectionStyle.Render(title))
}

func printKeyValue(w io.Writer, key string, value interface{}) {
	fmt.Fprintf(w, "%s %v\n", keyStyle.Render(key+":"), value)
}

func printCheck(w io.Writer, label string, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s %s\n", failStyle.Render("❌ "+label), err)
		return
	}
	fmt.Fprintln(w, okStyle.Render("✅ "+label))
}

// maskSecret keeps the last four characters of a key.
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

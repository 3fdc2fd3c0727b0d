package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	// Out and ErrOut receive all printed output
	Out    io.Writer = os.Stdout
	ErrOut io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#4a90d9")
	SuccessColor   = lipgloss.Color("#2ecc71")
	WarningColor   = lipgloss.Color("#f1c40f")
	ErrorColor     = lipgloss.Color("#e74c3c")
	InfoColor      = lipgloss.Color("#4a90d9")
	SecondaryColor = lipgloss.Color("#7f8c8d")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// SetOutput redirects output and returns a function restoring the old
// writers.
func SetOutput(out, errOut io.Writer) (restore func()) {
	prevOut, prevErr := Out, ErrOut
	Out, ErrOut = out, errOut
	pterm.SetDefaultOutput(out)
	return func() {
		Out, ErrOut = prevOut, prevErr
		pterm.SetDefaultOutput(prevOut)
	}
}

func termWidth() int {
	if w := pterm.GetTerminalWidth(); w > 0 {
		return w
	}
	return 80
}

// PrintHeader prints a centred title box with a dimmed subtitle, as wide as
// the terminal up to 100 columns.
func PrintHeader(title, subtitle string) {
	body := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Render(title)
	if subtitle != "" {
		body = lipgloss.JoinVertical(lipgloss.Center, body, SecondaryStyle.Render(subtitle))
	}
	fmt.Fprintln(Out, lipgloss.NewStyle().
		Width(min(termWidth(), 100)-2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Render(body))
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(ErrOut, ErrorStyle.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(ErrOut, WarningStyle.Render("⚠ "+message))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+message))
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	return pterm.DefaultTable.WithHasHeader().WithWriter(Out).WithData(tableData).Render()
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(Out, "  • %s\n", item)
	}
}

// RenderMarkdown renders markdown for the terminal
func RenderMarkdown(content string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	out, err := RenderMarkdown(content, min(termWidth(), 100))
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

// PrintBox prints a titled box with one line per entry. The border takes
// the colour of style.
func PrintBox(style lipgloss.Style, title string, lines ...string) {
	border := style.GetForeground()
	fmt.Fprintln(Out, lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			append([]string{TitleStyle.Render(title)}, lines...)...)))
}

// PrintSpinner creates a spinner and returns it
func PrintSpinner(message string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.WithWriter(ErrOut).WithRemoveWhenDone(true).Start(message)
}

// PrintSection prints a section header
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(title)

	fmt.Fprintln(Out, section)
}

// PrintCodeBlock prints code in a styled block
func PrintCodeBlock(code string, language string) {
	codeStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SecondaryColor).
		Padding(0, 1).
		Foreground(lipgloss.Color("#D4D4D4"))

	if language != "" {
		fmt.Fprintln(Out, SecondaryStyle.Render(fmt.Sprintf(" %s ", language)))
	}
	fmt.Fprintln(Out, codeStyle.Render(code))
}

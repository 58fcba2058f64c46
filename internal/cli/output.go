package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/poker-board/internal/board"
	"github.com/pfrederiksen/poker-board/internal/calendar"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatICS  OutputFormat = "ics"
)

// CalendarName names the exported calendar.
const CalendarName = "Poker Tournaments"

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatICS:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'text', 'json', 'yaml' or 'ics')", s)
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *board.Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(result.Tournaments, CalendarName, result.Now))
		return err
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *board.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeYAML(w io.Writer, result *board.Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return err
	}
	return encoder.Close()
}

// writeText outputs one line per visible row and the result counter.
func writeText(w io.Writer, result *board.Result, verbose bool) error {
	if verbose {
		fmt.Fprintf(w, "Filters: %s\n", result.State)
		fmt.Fprintf(w, "Now: %s\n\n", result.Now.Format("2006-01-02 15:04 MST"))
	}

	if result.Empty() {
		fmt.Fprintln(w, board.NoDataMessage)
		fmt.Fprintf(w, "\nTotal: %s\n", result.Counter())
		return nil
	}

	for _, v := range result.Rows {
		fmt.Fprintln(w, textLine(v))
		if verbose {
			if v.PrizeSummary != "" {
				fmt.Fprintf(w, "     Prize: %s\n", v.PrizeSummary)
			}
			if v.Link != "" {
				fmt.Fprintf(w, "     Link: %s\n", v.Link)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %s\n", result.Counter())
	return nil
}

func textLine(v board.View) string {
	marker := "  "
	if v.Expired {
		marker = "x "
	}

	when := strings.TrimSpace(v.DateText + " " + v.StartText)
	parts := []string{marker + when}
	if v.LateText != "" {
		parts = append(parts, "締切 "+v.LateText)
	}

	title := v.Title
	if title == "" {
		title = board.UntitledCard
	}
	if v.ShopName != "" {
		title += " @ " + v.ShopName
	}
	if v.Area != "" {
		title += " (" + v.Area + ")"
	}
	parts = append(parts, title)

	if v.EntryFeeText != "" {
		parts = append(parts, "参加費 "+v.EntryFeeText)
	}
	parts = append(parts, "総額 "+v.TotalPrizeText)
	if v.MultiplierText != "" {
		parts = append(parts, v.MultiplierText)
	}
	return strings.Join(parts, "  ")
}

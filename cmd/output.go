package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/batch"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
)

// printer renders command results in the selected format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch f := strings.ToLower(format); f {
	case "", outputText:
		return &printer{w: w, format: outputText}, nil
	case outputJSON, outputYAML:
		return &printer{w: w, format: f}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// encode writes v as JSON or YAML. It reports false in text mode.
func (p *printer) encode(v any) (bool, error) {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// message prints a line in text mode and v otherwise.
func (p *printer) message(text string, v any) error {
	if done, err := p.encode(v); done {
		return err
	}
	_, err := fmt.Fprintln(p.w, text)
	return err
}

func (p *printer) tasks(tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	if done, err := p.encode(tasks); done {
		return err
	}
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(p.w, "No tasks found.")
		return err
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.ID, checkbox(t.Completed), dash(t.Priority), dash(t.Time), dash(t.CategoryID), t.Title})
	}
	return p.table([]string{"ID", "DONE", "PRI", "DUE", "CATEGORY", "TITLE"}, rows, func(i int) bool {
		return tasks[i].Completed
	})
}

func (p *printer) categories(categories []model.Category) error {
	if categories == nil {
		categories = []model.Category{}
	}
	if done, err := p.encode(categories); done {
		return err
	}
	if len(categories) == 0 {
		_, err := fmt.Fprintln(p.w, "No categories found.")
		return err
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.ID, c.Color, dash(c.Icon), c.Title})
	}
	return p.table([]string{"ID", "COLOR", "ICON", "TITLE"}, rows, nil)
}

func (p *printer) results(results []batch.Result) error {
	if done, err := p.encode(batch.Summarize(results)); done {
		return err
	}
	for _, r := range results {
		var line string
		switch r.Status {
		case batch.StatusSuccess:
			line = successStyle.Render("✓") + " " + r.Result
		default:
			line = errorStyle.Render("✗") + " " + r.ID + ": " + r.Error
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return nil
}

// table aligns rows with a tabwriter and styles whole lines afterwards, so
// escape sequences do not upset the column widths. faint marks rows to dim.
func (p *printer) table(header []string, rows [][]string, faint func(i int) bool) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			line = headerStyle.Render(line)
		case faint != nil && faint(i-1):
			line = doneStyle.Render(line)
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return nil
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package reporting

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/spboyer/brandqc/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// FormatMarkdown renders the report as a Markdown document: a batch summary
// followed by a table with one row per image and one column per criterion.
func FormatMarkdown(report *models.BatchReport) string {
	var b strings.Builder
	s := report.Summary

	fmt.Fprintf(&b, "# %s image QC\n\n", escapeCell(report.Brand))
	if report.RubricVersion != "" {
		fmt.Fprintf(&b, "Rubric version %s, run `%s`.\n\n", escapeCell(report.RubricVersion), report.RunID)
	}
	fmt.Fprintf(&b, "**%d** passed, **%d** failed, **%d** errors out of %d images. Mean score %.2f (%s).\n\n",
		s.Passed, s.Failed, s.Errored, s.Total, s.MeanScore, InterpretScore(s.MeanScore))

	if len(report.Reviews) > 0 {
		header := CSVHeader(report.Criteria)
		for i := range header {
			header[i] = escapeCell(header[i])
		}
		b.WriteString("| " + strings.Join(header, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")

		for _, review := range report.Reviews {
			row := csvRow(report.Criteria, &review)
			for i := range row {
				row[i] = escapeCell(row[i])
			}
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		b.WriteString("\n")
	}

	if len(report.Failures) > 0 {
		b.WriteString("## Not evaluated\n\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", escapeCell(f.ImageID), f.Kind, escapeCell(f.Error))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHTML converts Markdown produced by FormatMarkdown into a standalone
// HTML page.
func RenderHTML(markdown string, title string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("rendering HTML report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:4px 8px}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// escapeCell keeps free text from breaking the table and emphasis syntax.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "*", `\*`)
}

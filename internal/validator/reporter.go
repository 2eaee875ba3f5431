package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatActions produces GitHub Actions annotations.
	FormatActions Format = "actions"
)

// maxValueLen truncates long values in text output.
const maxValueLen = 50

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(result), "encoding JSON report")
	case FormatActions:
		return r.reportActions(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) reportText(result *Result) error {
	errs := result.Errors()
	warnings := result.Warnings()

	if len(errs) == 0 && len(warnings) == 0 {
		_, err := fmt.Fprintln(r.out, color.GreenString("✓ inputs are valid"))
		return err
	}

	var summary []string
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	fmt.Fprintf(r.out, "%s\n\n", strings.Join(summary, ", "))

	for _, group := range []struct {
		title  string
		issues []Issue
		attr   color.Attribute
	}{
		{"Errors:", errs, color.FgRed},
		{"Warnings:", warnings, color.FgYellow},
	} {
		if len(group.issues) == 0 {
			continue
		}
		fmt.Fprintln(r.out, group.title)
		for _, i := range group.issues {
			r.printIssue(i, group.attr)
		}
		fmt.Fprintln(r.out)
	}
	return nil
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()
	dim := color.New(color.FgHiBlack)

	var sb strings.Builder
	sb.WriteString("  • ")
	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)

	if i.Value != nil {
		val := fmt.Sprintf("%v", i.Value)
		if len(val) > maxValueLen {
			val = val[:maxValueLen-3] + "..."
		}
		sb.WriteString(dim.Sprintf(" [%s]", val))
	}
	if i.Hint != "" {
		sb.WriteString(dim.Sprintf("\n    hint: %s", i.Hint))
	}
	fmt.Fprintln(r.out, sb.String())
}

// reportActions writes one workflow command per error or warning.
func (r *Reporter) reportActions(result *Result) error {
	for _, i := range result.Issues {
		var cmd string
		switch i.Severity {
		case SeverityError:
			cmd = "error"
		case SeverityWarning:
			cmd = "warning"
		default:
			cmd = "notice"
		}
		title := "input"
		if i.Field != "" {
			title = i.Field
		}
		msg := i.Error()
		if i.Hint != "" {
			msg += "; " + i.Hint
		}
		if _, err := fmt.Fprintf(r.out, "::%s title=%s::%s\n", cmd, escapeProperty(title), escapeData(msg)); err != nil {
			return err
		}
	}
	return nil
}

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string     { return dataEscaper.Replace(s) }
func escapeProperty(s string) string { return propertyEscaper.Replace(s) }

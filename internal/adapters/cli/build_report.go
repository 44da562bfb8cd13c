package cli

import (
	"fmt"
	"io"
	"time"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type reportOutput interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Out() io.Writer
	Err() io.Writer
}

type BuildIssue struct {
	Entry   string
	Message string
	Details []string
}

// BuildReport collects steps, warnings and errors of one compile and renders
// a summary once it finishes.
type BuildReport struct {
	output      reportOutput
	steps       []BuildStep
	warnings    []BuildIssue
	errors      []BuildIssue
	startTime   time.Time
	entryCount  int
	files       []string
	outputDir   string
	hasFailures bool
}

func NewBuildReport(output reportOutput, outputDir string) *BuildReport {
	return &BuildReport{
		output:    output,
		steps:     make([]BuildStep, 0),
		warnings:  make([]BuildIssue, 0),
		errors:    make([]BuildIssue, 0),
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *BuildReport) SetEntryCount(count int) {
	r.entryCount = count
}

func (r *BuildReport) AddFile(path string) {
	r.files = append(r.files, path)
}

func (r *BuildReport) StartStep(name string) int {
	r.steps = append(r.steps, BuildStep{
		Name:      name,
		StartTime: time.Now(),
	})
	return len(r.steps) - 1
}

func (r *BuildReport) EndStep(step int, success bool, err string) {
	s := &r.steps[step]
	s.EndTime = time.Now()
	s.Success = success
	s.Error = err
	if !success {
		r.hasFailures = true
	}
}

func (r *BuildReport) AddWarning(entry string, message string, details []string) {
	r.warnings = append(r.warnings, BuildIssue{
		Entry:   entry,
		Message: message,
		Details: details,
	})
}

func (r *BuildReport) AddError(entry string, message string, details []string) {
	r.errors = append(r.errors, BuildIssue{
		Entry:   entry,
		Message: message,
		Details: details,
	})
	r.hasFailures = true
}

func (r *BuildReport) Render() {
	duration := time.Since(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *BuildReport) renderMinimal(duration time.Duration) {
	out := r.output.Out()

	fmt.Fprintf(out, "  "+r.output.Green("✓ ")+"%d entry points\n", r.entryCount)

	failed := make([]string, 0, len(r.steps))
	for _, step := range r.steps {
		if !step.Success {
			failed = append(failed, "  "+r.output.Red("✗ ")+step.Name)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintf(out, "  "+r.output.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	} else {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Failed steps:")
		for _, line := range failed {
			fmt.Fprintln(out, line)
		}
	}

	r.renderFiles()
}

func (r *BuildReport) renderVerbose(duration time.Duration) {
	out := r.output.Out()
	errOut := r.output.Err()

	fmt.Fprintf(out, "  %d entry points\n", r.entryCount)

	fmt.Fprintln(out)
	for _, step := range r.steps {
		status := r.output.Green("✓")
		if !step.Success {
			status = r.output.Red("✗")
		}
		fmt.Fprintf(out, "  %s %s\n", status, step.Name)
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(errOut)
		fmt.Fprintf(errOut, "  "+r.output.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		r.renderIssues(errOut, r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  "+r.output.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderIssues(out, r.warnings)
	}

	fmt.Fprintln(out)
	if len(r.errors) > 0 {
		fmt.Fprintf(errOut, "  %s\n", r.output.Red(fmt.Sprintf("Build failed after %s", formatDuration(duration))))
	} else {
		fmt.Fprintf(out, "  "+r.output.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	}

	r.renderFiles()
}

func (r *BuildReport) renderFiles() {
	out := r.output.Out()
	for _, f := range r.files {
		fmt.Fprintf(out, "    %s\n", r.output.Gray(f))
	}
	if r.outputDir != "" {
		fmt.Fprintf(out, "\n  %s\n", r.output.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderIssues(w io.Writer, issues []BuildIssue) {
	for _, issue := range issues {
		if issue.Entry != "" {
			fmt.Fprintf(w, "  %s %s\n", r.output.Red("✗"), issue.Entry)
		}
		fmt.Fprintf(w, "    %s\n", issue.Message)

		for _, detail := range deduplicateStrings(issue.Details) {
			fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings keeps the first occurrence of each item, in order, and
// annotates repeated ones with their count.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if n := counts[item]; n > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, n))
		} else {
			result = append(result, item)
		}
	}
	return result
}

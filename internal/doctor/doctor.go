package doctor

import (
	"context"
	"time"
)

// Check inspects one aspect of the runner: the host platform, an existing
// SDK install, the exported environment, the cache directory or the LunarG
// metadata service.
type Check interface {
	Name() string

	// Category groups results in text output, e.g. "platform" or "network".
	Category() string

	Run(ctx context.Context) *CheckResult
}

// Runner runs checks in registration order.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner returns a Runner with no checks.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// AddCheck appends c to the run.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every check and tallies the results. Once ctx is done the
// remaining checks are reported as skipped instead of run.
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, c := range r.checks {
		var res *CheckResult
		if err := ctx.Err(); err != nil {
			res = &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityInfo,
				Message:  "skipped: " + err.Error(),
			}
		} else {
			res = c.Run(ctx)
		}
		report.add(res)
	}
	return report
}

// Report is the outcome of one doctor run.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

func (r *Report) add(res *CheckResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case SeverityPass:
		r.Summary.Passed++
	case SeverityInfo:
		r.Summary.Info++
	case SeverityWarning:
		r.Summary.Warnings++
	case SeverityError:
		r.Summary.Errors++
	}
}

// HasErrors reports whether any check failed. The doctor command exits
// non-zero in that case.
func (r *Report) HasErrors() bool { return r.Summary.Errors > 0 }

// HasWarnings reports whether any check produced a warning.
func (r *Report) HasWarnings() bool { return r.Summary.Warnings > 0 }

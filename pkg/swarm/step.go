package swarm

import "fmt"

// StepReport counts what happened during one Step.
type StepReport struct {
	Moved   int
	Skipped int
	Wrapped int
	// WrapSkipped is set when the viewport was unusable and nobody wrapped.
	WrapSkipped bool
}

// Step advances the population by dt seconds: Integrate, then Wrap, then
// Orient, over the whole population before returning.
//
// A negative or non finite dt is rejected before anything is touched.
// An unusable viewport still lets agents move and turn but skips wrapping;
// the returned error wraps ErrConfiguration.
func Step(p *Population, cfg Config, dt float64, viewport Viewport) (StepReport, error) {
	var report StepReport
	if !isFinite(dt) || dt < 0 {
		return report, fmt.Errorf("delta time %v must be a finite non-negative number: %w", dt, ErrConfiguration)
	}
	if err := ValidateSpeed(cfg.Speed); err != nil {
		return report, err
	}

	report.Moved, report.Skipped = Integrate(p, cfg.Speed, dt)
	wrapped, wrapErr := Wrap(p, viewport)
	report.Wrapped = wrapped
	Orient(p)

	if wrapErr != nil {
		report.WrapSkipped = true
		return report, fmt.Errorf("wrapping skipped: %w", wrapErr)
	}
	return report, nil
}

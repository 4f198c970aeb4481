package scene

import (
	"fmt"

	"github.com/chazu/supportmesh/pkg/support"
)

// MinSamples is the smallest sample count that can produce a solid hull.
const MinSamples = 4

// MaxPracticalSamples is the point past which hull construction gets slow
// enough to warn about.
const MaxPracticalSamples = 100_000

// ValidationSeverity indicates whether a validation finding blocks meshing
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks meshing
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Entry    string             // which entry has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] shape %q: %s", e.Severity, e.Entry, e.Message)
}

// Validate checks every entry and returns all findings in entry order.
// This function is read-only.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(s.Entries))
	for i, e := range s.Entries {
		name := e.Name
		if name == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("entry %d has no name", i),
				Severity: SeverityError,
			})
		} else if seen[name] {
			errs = append(errs, ValidationError{
				Entry:    name,
				Message:  "duplicate shape name",
				Severity: SeverityError,
			})
		}
		seen[name] = true

		if err := support.Validate(e.Shape); err != nil {
			errs = append(errs, ValidationError{Entry: name, Message: err.Error(), Severity: SeverityError})
		}

		n := s.Samples(e)
		switch {
		case n < MinSamples:
			errs = append(errs, ValidationError{
				Entry:    name,
				Message:  fmt.Sprintf("sample count %d is below the minimum of %d", n, MinSamples),
				Severity: SeverityError,
			})
		case n > MaxPracticalSamples:
			errs = append(errs, ValidationError{
				Entry:    name,
				Message:  fmt.Sprintf("sample count %d exceeds %d; hulling may be slow", n, MaxPracticalSamples),
				Severity: SeverityWarning,
			})
		}

		if tc, ok := e.Shape.(support.TaperedCapsule); ok && tc.RadiusA != tc.RadiusB {
			errs = append(errs, ValidationError{
				Entry:    name,
				Message:  "tapered capsule support is approximate when radii differ",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// Errors returns only the blocking findings.
func Errors(findings []ValidationError) []ValidationError {
	var out []ValidationError
	for _, f := range findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

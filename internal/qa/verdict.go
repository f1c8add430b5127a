package qa

import "fmt"

// Verdict is the submission recommendation derived from a run's findings.
type Verdict int

const (
	VerdictReady Verdict = iota
	VerdictCaution
	VerdictBlocked
)

// Process exit statuses for each verdict. Exit status 1 is left to fatal errors.
const (
	ExitReady   = 0
	ExitCaution = 2
	ExitBlocked = 3
)

// Decide reduces findings to a verdict. It depends only on the issue
// count and on how many issues are critical.
func Decide(f *Findings) Verdict {
	return DecideCounts(f.Counts())
}

// DecideCounts is Decide over precomputed counts.
func DecideCounts(c Counts) Verdict {
	switch {
	case c.Critical > 0:
		return VerdictBlocked
	case c.Issues() > 0:
		return VerdictCaution
	default:
		return VerdictReady
	}
}

func (v Verdict) String() string {
	switch v {
	case VerdictReady:
		return "READY"
	case VerdictCaution:
		return "CAUTION"
	case VerdictBlocked:
		return "BLOCKED"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Message is the one-line recommendation shown for the verdict.
func (v Verdict) Message() string {
	switch v {
	case VerdictReady:
		return "All checks passed. The release is ready for submission."
	case VerdictCaution:
		return "Submission is allowed, but fixing the issues below is recommended."
	case VerdictBlocked:
		return "Submission is not allowed. Resolve the critical issues before submitting."
	default:
		return ""
	}
}

// ExitCode maps the verdict to a process exit status.
func (v Verdict) ExitCode() int {
	switch v {
	case VerdictCaution:
		return ExitCaution
	case VerdictBlocked:
		return ExitBlocked
	default:
		return ExitReady
	}
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "READY":
		*v = VerdictReady
	case "CAUTION":
		*v = VerdictCaution
	case "BLOCKED":
		*v = VerdictBlocked
	default:
		return fmt.Errorf("unknown verdict %q", text)
	}
	return nil
}

package kpfits

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Severity classifies a finding. The set is closed: warnings never influence
// the verdict, failures always do.
type Severity string

const (
	SeverityPass    = Severity("PASS")
	SeverityFail    = Severity("FAIL")
	SeverityWarning = Severity("WARNING")
)

// FindingCode identifies the check that produced a finding.
type FindingCode string

const (
	// E001 - mandatory extension missing from the file
	E001 = FindingCode("E001")
	// E002 - fewer extensions than the configured minimum
	E002 = FindingCode("E002")
	// E003 - extension rank differs from the schema
	E003 = FindingCode("E003")
	// E004 - fixed-size axis has the wrong length
	E004 = FindingCode("E004")
	// E005 - shared axis observed with conflicting sizes
	E005 = FindingCode("E005")
	// E006 - required primary header key missing
	E006 = FindingCode("E006")
	// E007 - primary HDU absent, header check impossible
	E007 = FindingCode("E007")
	// W001 - extension name not part of the format
	W001 = FindingCode("W001")
)

var findingDescriptions = map[FindingCode]string{
	E001: "mandatory extension missing",
	E002: "too few extensions",
	E003: "extension has incorrect dimensions",
	E004: "fixed axis has incorrect length",
	E005: "inconsistent shared axis size",
	E006: "required primary header key missing",
	E007: "primary extension missing, header not checked",
	W001: "extension name not part of the kernel-phase format",
}

// Description returns the registered description for the code.
func (fc FindingCode) Description() string {
	desc, ok := findingDescriptions[fc]
	if !ok {
		return fmt.Sprintf("unknown finding code %s", string(fc))
	}
	return desc
}

// Finding is one entry of a validation log. Values carries the raw observed
// axis sizes for axis-conflict findings (E005) so that callers can assert on
// them without parsing Message; it is nil for all other codes.
type Finding struct {
	Code     FindingCode
	Severity Severity
	Message  string
	Values   []int
}

func (f Finding) String() string {
	if len(f.Values) > 0 {
		return fmt.Sprintf("%s #%s - %s [%s]", f.Severity, f.Code, f.Message, joinInts(f.Values))
	}
	return fmt.Sprintf("%s #%s - %s", f.Severity, f.Code, f.Message)
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%d", v))
	}
	return strings.Join(parts, " ")
}

// Report is the outcome of one validation run: the ordered findings log plus
// the aggregate verdict. Valid is the conjunction of all mandatory check
// results; warnings never flip it.
type Report struct {
	Findings []Finding
	Valid    bool
}

// Failures returns the FAIL findings in log order.
func (r *Report) Failures() []Finding {
	var fails []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityFail {
			fails = append(fails, f)
		}
	}
	return fails
}

// Warnings returns the WARNING findings in log order.
func (r *Report) Warnings() []Finding {
	var warns []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			warns = append(warns, f)
		}
	}
	return warns
}

// Compact removes adjacent duplicate findings (same code and message).
func (r *Report) Compact() {
	r.Findings = slices.CompactFunc(r.Findings, func(a, b Finding) bool {
		return a.Code == b.Code && a.Message == b.Message
	})
}

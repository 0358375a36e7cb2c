package kpfits

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Option configures a Validator.
type Option func(*Validator)

// WithMinExtensions overrides the minimum HDU count of the truncation check.
func WithMinExtensions(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.minExtensions = n
		}
	}
}

// WithLogger attaches a logger for debug traces of the individual checks.
// Findings are always returned as data; the logger never carries the result.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// Validator checks a Directory against the kernel-phase format schema. It is
// stateless across runs; every Validate call allocates its own collectors,
// so a single Validator may serve concurrent runs.
type Validator struct {
	minExtensions int
	logger        zerolog.Logger
}

// NewValidator creates a Validator with the format defaults.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		minExtensions: DefaultMinExtensions,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// axisCollector gathers the sizes observed for each symbolic axis during one
// run. It lives only between shape checking and reconciliation.
type axisCollector map[Axis][]int

// axisOrder fixes the reconciliation order so that two runs over the same
// directory produce identical reports.
var axisOrder = []Axis{AxisFrames, AxisWavelengths, AxisKernels, AxisPixels, AxisApertures, AxisUVPoints}

// Validate runs the full check battery over dir and returns the report.
// Schema violations are findings, never errors: the run always completes,
// whatever the directory looks like.
func (v *Validator) Validate(dir Directory) *Report {
	report := &Report{Valid: true}
	merge := func(ok bool, findings []Finding) {
		report.Findings = append(report.Findings, findings...)
		report.Valid = report.Valid && ok
	}

	merge(v.checkRequired(dir))
	merge(v.checkCount(dir))

	ok, findings, collected := v.checkShapes(dir)
	merge(ok, findings)
	merge(v.reconcileAxes(collected))

	merge(v.checkHeader(dir))

	// advisory only, kept last so the log groups mandatory findings first
	report.Findings = append(report.Findings, v.checkNames(dir)...)

	v.logger.Debug().Bool("valid", report.Valid).Int("findings", len(report.Findings)).Msg("validation run complete")
	return report
}

// checkRequired reports every mandatory extension missing from dir.
func (v *Validator) checkRequired(dir Directory) (bool, []Finding) {
	var findings []Finding
	ok := true
	for _, name := range MandatoryExtensions() {
		if _, found := dir[name]; !found {
			ok = false
			findings = append(findings, Finding{
				Code:     E001,
				Severity: SeverityFail,
				Message:  fmt.Sprintf("mandatory extension %s missing", name),
			})
		}
	}
	if ok {
		findings = append(findings, Finding{
			Code:     E001,
			Severity: SeverityPass,
			Message:  "all mandatory extensions present",
		})
	}
	return ok, findings
}

// checkCount catches grossly truncated files before the per-extension
// checks run.
func (v *Validator) checkCount(dir Directory) (bool, []Finding) {
	if len(dir) < v.minExtensions {
		return false, []Finding{{
			Code:     E002,
			Severity: SeverityFail,
			Message:  fmt.Sprintf("file contains %d extensions, at least %d required", len(dir), v.minExtensions),
		}}
	}
	return true, []Finding{{
		Code:     E002,
		Severity: SeverityPass,
		Message:  fmt.Sprintf("extension count sufficient (%d)", len(dir)),
	}}
}

// checkShapes walks the schema table, compares ranks and fixed axis lengths
// for every extension present in dir, and collects the sizes of all bound
// symbolic axes. An extension with the wrong rank is reported once and
// excluded from fixed-position checks and axis collection, so partial data
// never corrupts reconciliation. Extensions absent from dir contribute
// nothing here.
func (v *Validator) checkShapes(dir Directory) (bool, []Finding, axisCollector) {
	var findings []Finding
	ok := true
	collected := axisCollector{}

	for _, rule := range schemaTable {
		ext, found := dir[rule.Name]
		if !found {
			continue
		}
		if ext.Rank() != rule.Rank {
			ok = false
			findings = append(findings, Finding{
				Code:     E003,
				Severity: SeverityFail,
				Message:  fmt.Sprintf("extension %s has incorrect dimensions: rank %d, expected %d", rule.Name, ext.Rank(), rule.Rank),
			})
			continue
		}
		for _, pos := range orderedKeys(rule.Fixed) {
			if ext.Shape[pos] != rule.Fixed[pos] {
				ok = false
				findings = append(findings, Finding{
					Code:     E004,
					Severity: SeverityFail,
					Message:  fmt.Sprintf("extension %s axis %d has length %d, expected %d", rule.Name, pos, ext.Shape[pos], rule.Fixed[pos]),
				})
			}
		}
		for _, pos := range orderedKeys(rule.Axes) {
			axis := rule.Axes[pos]
			collected[axis] = append(collected[axis], ext.Shape[pos])
			v.logger.Debug().Str("extension", rule.Name).Str("axis", string(axis)).Int("size", ext.Shape[pos]).Msg("axis observed")
		}
	}
	return ok, findings, collected
}

// reconcileAxes checks that every symbolic axis was observed with a single
// size. The apertures axis tolerates exactly two sizes one apart: the full
// aperture mapping and the baseline representation count the same geometry
// offset by one convention.
func (v *Validator) reconcileAxes(collected axisCollector) (bool, []Finding) {
	var findings []Finding
	ok := true
	for _, axis := range axisOrder {
		values := collected[axis]
		if len(values) == 0 {
			findings = append(findings, Finding{
				Code:     E005,
				Severity: SeverityPass,
				Message:  fmt.Sprintf("axis %s not observed", axis),
			})
			continue
		}
		distinct := slices.Clone(values)
		slices.Sort(distinct)
		distinct = slices.Compact(distinct)
		switch {
		case len(distinct) == 1:
			findings = append(findings, Finding{
				Code:     E005,
				Severity: SeverityPass,
				Message:  fmt.Sprintf("axis %s consistent (size %d)", axis, distinct[0]),
			})
		case axis == AxisApertures && len(distinct) == 2 && distinct[1]-distinct[0] == 1:
			findings = append(findings, Finding{
				Code:     E005,
				Severity: SeverityPass,
				Message:  fmt.Sprintf("axis %s consistent within convention offset", axis),
				Values:   distinct,
			})
		default:
			ok = false
			findings = append(findings, Finding{
				Code:     E005,
				Severity: SeverityFail,
				Message:  fmt.Sprintf("axis %s has inconsistent sizes", axis),
				Values:   distinct,
			})
		}
	}
	return ok, findings
}

// checkHeader verifies the required keys on the primary header. A missing
// primary HDU is its own finding here; the presence check has already
// reported it as a missing mandatory extension.
func (v *Validator) checkHeader(dir Directory) (bool, []Finding) {
	primary, found := dir[PrimaryName]
	if !found {
		return false, []Finding{{
			Code:     E007,
			Severity: SeverityFail,
			Message:  "primary extension missing, header not checked",
		}}
	}
	var missing []string
	for _, key := range RequiredHeaderKeys() {
		if _, found := primary.Header[key]; !found {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return false, []Finding{{
			Code:     E006,
			Severity: SeverityFail,
			Message:  fmt.Sprintf("primary header missing required keys: %s", strings.Join(missing, ", ")),
		}}
	}
	return true, []Finding{{
		Code:     E006,
		Severity: SeverityPass,
		Message:  "primary header complete",
	}}
}

// checkNames warns about extensions the format does not recognize. Advisory
// only, never part of the verdict.
func (v *Validator) checkNames(dir Directory) []Finding {
	known := KnownExtensions()
	var findings []Finding
	for _, name := range dir.Names() {
		if !slices.Contains(known, name) {
			findings = append(findings, Finding{
				Code:     W001,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("extension %s not part of the kernel-phase format", name),
			})
		}
	}
	return findings
}

// orderedKeys returns the map keys sorted, for deterministic iteration.
func orderedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

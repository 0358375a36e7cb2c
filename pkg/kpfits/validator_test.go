package kpfits

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
)

// conformantDirectory builds a fully schema-correct product with frames=5,
// wavelengths=2, kernels=40, pixels=64, apertures=48, uv_points=150.
func conformantDirectory() Directory {
	dir := Directory{}
	add := func(name string, kind ExtensionKind, shape ...int) {
		dir[name] = &ExtensionDescriptor{
			Name:   name,
			Kind:   kind,
			Shape:  shape,
			Header: map[string]any{},
		}
	}
	add(PrimaryName, KindImage, 5, 2, 64, 64)
	add("APERTURE", KindImage, 48, 3)
	add("UV-PLANE", KindImage, 150, 3)
	add("KER-MAT", KindImage, 40, 150)
	add("BLM-MAT", KindImage, 150, 48)
	add("KP-DATA", KindImage, 5, 2, 40)
	add("KP-SIGM", KindImage, 5, 2, 40)
	add("CWAVEL", KindTable, 2, 2)
	add("DETPA", KindImage, 5)
	add("VIS-DATA", KindImage, 5, 2, 150)
	dir[PrimaryName].Header = map[string]any{
		"PSCALE":  3.14,
		"DIAM":    1.62,
		"EXPTIME": 2.72,
	}
	return dir
}

func findingsWithCode(report *Report, code FindingCode, severity Severity) []Finding {
	var out []Finding
	for _, f := range report.Findings {
		if f.Code == code && f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

func TestValidateConformant(t *testing.T) {
	report := NewValidator().Validate(conformantDirectory())
	if !report.Valid {
		t.Errorf("conformant directory reported invalid")
	}
	if fails := report.Failures(); len(fails) != 0 {
		t.Errorf("conformant directory produced failures: %v", fails)
	}
}

func TestMissingMandatoryExtension(t *testing.T) {
	for _, name := range MandatoryExtensions() {
		dir := conformantDirectory()
		delete(dir, name)
		report := NewValidator().Validate(dir)
		if report.Valid {
			t.Errorf("directory without %s reported valid", name)
		}
		var named bool
		for _, f := range findingsWithCode(report, E001, SeverityFail) {
			if strings.Contains(f.Message, name) {
				named = true
			}
		}
		if !named {
			t.Errorf("missing %s not named in failures: %v", name, report.Failures())
		}
	}
}

func TestInconsistentKernelAxis(t *testing.T) {
	dir := conformantDirectory()
	dir["KP-SIGM"].Shape = []int{5, 2, 41}
	report := NewValidator().Validate(dir)
	if report.Valid {
		t.Errorf("conflicting kernel counts reported valid")
	}
	fails := findingsWithCode(report, E005, SeverityFail)
	if len(fails) != 1 {
		t.Fatalf("expected one axis failure, got %v", fails)
	}
	if diff := deep.Equal(fails[0].Values, []int{40, 41}); diff != nil {
		t.Errorf("observed kernel counts: %v", diff)
	}
	if !strings.Contains(fails[0].Message, string(AxisKernels)) {
		t.Errorf("axis failure does not name kernels: %s", fails[0].Message)
	}
}

func TestApertureExtensionAbsent(t *testing.T) {
	dir := conformantDirectory()
	delete(dir, "APERTURE")
	report := NewValidator().Validate(dir)
	if report.Valid {
		t.Errorf("directory without APERTURE reported valid")
	}
	for _, f := range report.Failures() {
		if f.Code != E001 && strings.Contains(f.Message, "APERTURE") {
			t.Errorf("absent APERTURE produced a non-presence failure: %s", f)
		}
	}
	// apertures axis still observed once via BLM-MAT, trivially consistent
	for _, f := range findingsWithCode(report, E005, SeverityFail) {
		if strings.Contains(f.Message, string(AxisApertures)) {
			t.Errorf("apertures axis failed with APERTURE absent: %s", f)
		}
	}
}

func TestUnknownExtensionWarning(t *testing.T) {
	dir := conformantDirectory()
	dir["FOO-BAR"] = &ExtensionDescriptor{Name: "FOO-BAR", Kind: KindImage, Shape: []int{10}, Header: map[string]any{}}
	report := NewValidator().Validate(dir)
	if !report.Valid {
		t.Errorf("unknown extension flipped the verdict: %v", report.Failures())
	}
	warns := report.Warnings()
	if len(warns) != 1 || !strings.Contains(warns[0].Message, "FOO-BAR") {
		t.Errorf("expected one warning naming FOO-BAR, got %v", warns)
	}
}

func TestApertureTolerance(t *testing.T) {
	for _, tc := range []struct {
		values []int
		ok     bool
	}{
		{[]int{12, 13}, true},
		{[]int{12, 14}, false},
		{[]int{12}, true},
		{[]int{10, 11, 12}, false},
		{[]int{13, 12}, true},
		{nil, true},
	} {
		v := NewValidator()
		ok, _ := v.reconcileAxes(axisCollector{AxisApertures: tc.values})
		if ok != tc.ok {
			t.Errorf("aperture values %v: got ok=%v, want %v", tc.values, ok, tc.ok)
		}
	}
}

func TestOtherAxesHaveNoTolerance(t *testing.T) {
	v := NewValidator()
	ok, findings := v.reconcileAxes(axisCollector{AxisFrames: []int{12, 13}})
	if ok {
		t.Errorf("frames axis accepted two distinct sizes")
	}
	var fail *Finding
	for i := range findings {
		if findings[i].Severity == SeverityFail {
			fail = &findings[i]
		}
	}
	if fail == nil {
		t.Fatalf("no failure finding for conflicting frames axis")
	}
	if diff := deep.Equal(fail.Values, []int{12, 13}); diff != nil {
		t.Errorf("observed frame counts: %v", diff)
	}
}

func TestIdempotence(t *testing.T) {
	dir := conformantDirectory()
	dir["KP-SIGM"].Shape = []int{5, 2, 41}
	v := NewValidator()
	first := v.Validate(dir)
	second := v.Validate(dir)
	if diff := deep.Equal(first, second); diff != nil {
		t.Errorf("two runs over the same directory differ: %v", diff)
	}
}

func TestReconciliationOrderIndependence(t *testing.T) {
	base := conformantDirectory()
	base["KP-SIGM"].Shape = []int{5, 2, 41}

	// rebuild the directory in reverse insertion order
	reversed := Directory{}
	names := base.Names()
	for i := len(names) - 1; i >= 0; i-- {
		reversed[names[i]] = base[names[i]]
	}

	a := NewValidator().Validate(base)
	b := NewValidator().Validate(reversed)
	if a.Valid != b.Valid {
		t.Errorf("verdict depends on insertion order")
	}
	if diff := deep.Equal(a.Findings, b.Findings); diff != nil {
		t.Errorf("findings depend on insertion order: %v", diff)
	}
}

func TestWrongRankExcludedFromReconciliation(t *testing.T) {
	dir := conformantDirectory()
	dir["KP-DATA"].Shape = []int{5, 80}
	report := NewValidator().Validate(dir)
	if report.Valid {
		t.Errorf("wrong rank reported valid")
	}
	rankFails := findingsWithCode(report, E003, SeverityFail)
	if len(rankFails) != 1 || !strings.Contains(rankFails[0].Message, "KP-DATA") {
		t.Errorf("expected one rank failure for KP-DATA, got %v", rankFails)
	}
	// the stray sizes 5 and 80 must not leak into axis collection
	for _, f := range findingsWithCode(report, E005, SeverityFail) {
		t.Errorf("axis reconciliation corrupted by excluded extension: %s", f)
	}
}

func TestEmptyShapeTreatedAsRankMismatch(t *testing.T) {
	dir := conformantDirectory()
	dir["DETPA"].Shape = nil
	report := NewValidator().Validate(dir)
	if report.Valid {
		t.Errorf("empty shape reported valid")
	}
	fails := findingsWithCode(report, E003, SeverityFail)
	if len(fails) != 1 || !strings.Contains(fails[0].Message, "DETPA") {
		t.Errorf("expected rank failure for DETPA, got %v", fails)
	}
}

func TestFixedAxisLength(t *testing.T) {
	dir := conformantDirectory()
	dir["APERTURE"].Shape = []int{48, 4}
	report := NewValidator().Validate(dir)
	if report.Valid {
		t.Errorf("wrong fixed axis length reported valid")
	}
	fails := findingsWithCode(report, E004, SeverityFail)
	if len(fails) != 1 || !strings.Contains(fails[0].Message, "APERTURE") {
		t.Errorf("expected fixed-axis failure for APERTURE, got %v", fails)
	}
}

func TestHeaderKeyMissing(t *testing.T) {
	dir := conformantDirectory()
	delete(dir[PrimaryName].Header, "EXPTIME")
	report := NewValidator().Validate(dir)
	if report.Valid {
		t.Errorf("missing header key reported valid")
	}
	fails := findingsWithCode(report, E006, SeverityFail)
	if len(fails) != 1 || !strings.Contains(fails[0].Message, "EXPTIME") {
		t.Errorf("expected header failure naming EXPTIME, got %v", fails)
	}
}

func TestHeaderCheckWithoutPrimary(t *testing.T) {
	dir := conformantDirectory()
	delete(dir, PrimaryName)
	report := NewValidator().Validate(dir)
	if report.Valid {
		t.Errorf("directory without primary reported valid")
	}
	if len(findingsWithCode(report, E007, SeverityFail)) != 1 {
		t.Errorf("expected a header-not-checked failure, got %v", report.Failures())
	}
}

func TestMinimumExtensionCount(t *testing.T) {
	dir := Directory{}
	for _, name := range []string{PrimaryName, "KP-DATA", "KP-SIGM"} {
		dir[name] = conformantDirectory()[name]
	}
	report := NewValidator().Validate(dir)
	if len(findingsWithCode(report, E002, SeverityFail)) != 1 {
		t.Errorf("truncated directory passed the count check")
	}

	report = NewValidator(WithMinExtensions(3)).Validate(dir)
	if len(findingsWithCode(report, E002, SeverityFail)) != 0 {
		t.Errorf("count check ignored the configured minimum")
	}
}

func TestOptionalExtensionsParticipate(t *testing.T) {
	dir := conformantDirectory()
	dir["KP-COV"] = &ExtensionDescriptor{Name: "KP-COV", Kind: KindImage, Shape: []int{5, 2, 40, 40}, Header: map[string]any{}}
	dir["IMSHIFT"] = &ExtensionDescriptor{Name: "IMSHIFT", Kind: KindTable, Shape: []int{5, 2}, Header: map[string]any{}}
	if report := NewValidator().Validate(dir); !report.Valid {
		t.Errorf("conformant optional extensions broke validation: %v", report.Failures())
	}

	// an optional extension with a conflicting frame count must still fail
	dir["IMSHIFT"].Shape = []int{6, 2}
	report := NewValidator().Validate(dir)
	if report.Valid {
		t.Errorf("conflicting optional extension reported valid")
	}
	fails := findingsWithCode(report, E005, SeverityFail)
	if len(fails) != 1 {
		t.Fatalf("expected one axis failure, got %v", fails)
	}
	if diff := deep.Equal(fails[0].Values, []int{5, 6}); diff != nil {
		t.Errorf("observed frame counts: %v", diff)
	}
}

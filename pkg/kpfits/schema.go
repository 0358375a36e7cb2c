package kpfits

import (
	"golang.org/x/exp/slices"
)

// Axis names a logical quantity whose size must agree wherever it appears
// across extensions.
type Axis string

const (
	AxisFrames      = Axis("frames")
	AxisWavelengths = Axis("wavelengths")
	AxisKernels     = Axis("kernels")
	AxisPixels      = Axis("pixels")
	AxisApertures   = Axis("apertures")
	AxisUVPoints    = Axis("uv_points")
)

// PrimaryName is the canonical name of the primary HDU.
const PrimaryName = "PRIMARY"

// SchemaRule declares the expected geometry of one extension. Axes binds
// shape positions to symbolic axis names; Fixed pins shape positions to
// literal sizes. Positions may stay unbound (free sizes, e.g. the
// calibrator count of CAL-MAT).
type SchemaRule struct {
	Name      string
	Kind      ExtensionKind
	Rank      int
	Axes      map[int]Axis
	Fixed     map[int]int
	Mandatory bool
}

// schemaTable is the single source of truth of the kernel-phase format. The
// engine iterates this table, never the directory, so a missing extension is
// skipped instead of dereferenced. Shapes are row-major, matching the
// reference products.
var schemaTable = []SchemaRule{
	{
		Name: PrimaryName, Kind: KindImage, Rank: 4, Mandatory: true,
		Axes: map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 2: AxisPixels, 3: AxisPixels},
	},
	{
		Name: "APERTURE", Kind: KindImage, Rank: 2, Mandatory: true,
		Axes:  map[int]Axis{0: AxisApertures},
		Fixed: map[int]int{1: 3},
	},
	{
		Name: "UV-PLANE", Kind: KindImage, Rank: 2, Mandatory: true,
		Axes:  map[int]Axis{0: AxisUVPoints},
		Fixed: map[int]int{1: 3},
	},
	{
		Name: "KER-MAT", Kind: KindImage, Rank: 2, Mandatory: true,
		Axes: map[int]Axis{0: AxisKernels, 1: AxisUVPoints},
	},
	{
		Name: "BLM-MAT", Kind: KindImage, Rank: 2, Mandatory: true,
		Axes: map[int]Axis{0: AxisUVPoints, 1: AxisApertures},
	},
	{
		Name: "KP-DATA", Kind: KindImage, Rank: 3, Mandatory: true,
		Axes: map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 2: AxisKernels},
	},
	{
		Name: "KP-SIGM", Kind: KindImage, Rank: 3, Mandatory: true,
		Axes: map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 2: AxisKernels},
	},
	{
		Name: "CWAVEL", Kind: KindTable, Rank: 2, Mandatory: true,
		Axes:  map[int]Axis{0: AxisWavelengths},
		Fixed: map[int]int{1: 2},
	},
	{
		Name: "DETPA", Kind: KindImage, Rank: 1, Mandatory: true,
		Axes: map[int]Axis{0: AxisFrames},
	},
	{
		Name: "VIS-DATA", Kind: KindImage, Rank: 3, Mandatory: true,
		Axes: map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 2: AxisUVPoints},
	},
	{
		Name: "KA-DATA", Kind: KindImage, Rank: 3,
		Axes: map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 2: AxisKernels},
	},
	{
		Name: "KA-SIGM", Kind: KindImage, Rank: 3,
		Axes: map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 2: AxisKernels},
	},
	{
		// position 0 is the calibrator count, free by design
		Name: "CAL-MAT", Kind: KindImage, Rank: 2,
		Axes: map[int]Axis{1: AxisKernels},
	},
	{
		Name: "KP-COV", Kind: KindImage, Rank: 4,
		Axes: map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 2: AxisKernels, 3: AxisKernels},
	},
	{
		Name: "KA-COV", Kind: KindImage, Rank: 4,
		Axes: map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 2: AxisKernels, 3: AxisKernels},
	},
	{
		Name: "FULL-COV", Kind: KindImage, Rank: 6,
		Axes:  map[int]Axis{0: AxisFrames, 1: AxisWavelengths, 3: AxisKernels, 5: AxisKernels},
		Fixed: map[int]int{2: 2, 4: 2},
	},
	{
		Name: "IMSHIFT", Kind: KindTable, Rank: 2,
		Axes:  map[int]Axis{0: AxisFrames},
		Fixed: map[int]int{1: 2},
	},
}

// requiredHeaderKeys must all be present on the primary header.
var requiredHeaderKeys = []string{"PSCALE", "DIAM", "EXPTIME"}

// DefaultMinExtensions is the coarse lower bound on the HDU count used by
// the truncation check.
const DefaultMinExtensions = 7

// SchemaRules returns the format's rule table in check order.
func SchemaRules() []SchemaRule {
	return slices.Clone(schemaTable)
}

// MandatoryExtensions returns the names that must be present, in table order.
func MandatoryExtensions() []string {
	var names []string
	for _, rule := range schemaTable {
		if rule.Mandatory {
			names = append(names, rule.Name)
		}
	}
	return names
}

// KnownExtensions returns every name the format recognizes, in table order.
func KnownExtensions() []string {
	var names []string
	for _, rule := range schemaTable {
		names = append(names, rule.Name)
	}
	return names
}

// RequiredHeaderKeys returns the keys the primary header must carry.
func RequiredHeaderKeys() []string {
	return slices.Clone(requiredHeaderKeys)
}

package fits

import (
	"io"
	"math/rand"

	"emperror.dev/errors"
)

// DummyDims holds the dimensions of a generated test product.
type DummyDims struct {
	Frames      int
	Wavelengths int
	Pixels      int
	Kernels     int
	Apertures   int
	UVPoints    int
	Calibrators int
}

// RandomDims draws dimensions from the reference generator's ranges.
func RandomDims(rng *rand.Rand) DummyDims {
	return DummyDims{
		Kernels:     10 + rng.Intn(990),
		Frames:      5 + rng.Intn(45),
		Pixels:      1 << (2 + rng.Intn(6)),
		Apertures:   56 + rng.Intn(696),
		Wavelengths: 1 + rng.Intn(10),
		UVPoints:    100 + rng.Intn(100),
		Calibrators: 2 + rng.Intn(18),
	}
}

// WriteDummy writes a schema-conformant kernel-phase product with
// zero-filled data. With minimal set, only the mandatory HDUs are written.
func WriteDummy(w io.Writer, d DummyDims, minimal bool) error {
	fw := NewWriter(w)

	primaryHeader := map[string]any{"PSCALE": 3.14, "DIAM": 1.62, "EXPTIME": 2.72}
	if err := fw.WriteImage("PRIMARY", []int{d.Frames, d.Wavelengths, d.Pixels, d.Pixels}, primaryHeader); err != nil {
		return errors.Wrap(err, "PRIMARY")
	}

	mandatory := []struct {
		name  string
		shape []int
	}{
		{"APERTURE", []int{d.Apertures, 3}},
		{"UV-PLANE", []int{d.UVPoints, 3}},
		{"KER-MAT", []int{d.Kernels, d.UVPoints}},
		{"BLM-MAT", []int{d.UVPoints, d.Apertures}},
		{"KP-DATA", []int{d.Frames, d.Wavelengths, d.Kernels}},
		{"KP-SIGM", []int{d.Frames, d.Wavelengths, d.Kernels}},
	}
	for _, img := range mandatory {
		if err := fw.WriteImage(img.name, img.shape, nil); err != nil {
			return errors.Wrap(err, img.name)
		}
	}
	if err := fw.WriteTable("CWAVEL", []string{"CWAVEL", "DWAVEL"}, d.Wavelengths); err != nil {
		return errors.Wrap(err, "CWAVEL")
	}
	if err := fw.WriteImage("DETPA", []int{d.Frames}, nil); err != nil {
		return errors.Wrap(err, "DETPA")
	}
	if err := fw.WriteImage("VIS-DATA", []int{d.Frames, d.Wavelengths, d.UVPoints}, nil); err != nil {
		return errors.Wrap(err, "VIS-DATA")
	}
	if minimal {
		return nil
	}

	optional := []struct {
		name  string
		shape []int
	}{
		{"KA-DATA", []int{d.Frames, d.Wavelengths, d.Kernels}},
		{"KA-SIGM", []int{d.Frames, d.Wavelengths, d.Kernels}},
		{"CAL-MAT", []int{d.Calibrators, d.Kernels}},
		{"KP-COV", []int{d.Frames, d.Wavelengths, d.Kernels, d.Kernels}},
		{"KA-COV", []int{d.Frames, d.Wavelengths, d.Kernels, d.Kernels}},
		{"FULL-COV", []int{d.Frames, d.Wavelengths, 2, d.Kernels, 2, d.Kernels}},
	}
	for _, img := range optional {
		if err := fw.WriteImage(img.name, img.shape, nil); err != nil {
			return errors.Wrap(err, img.name)
		}
	}
	if err := fw.WriteTable("IMSHIFT", []string{"XSHIFT", "YSHIFT"}, d.Frames); err != nil {
		return errors.Wrap(err, "IMSHIFT")
	}
	return nil
}

// Package fits reads and writes the structural skeleton of FITS files:
// headers and HDU geometry. Data sections are sized and skipped, never
// decoded; the package exists to feed extension directories to the
// kernel-phase validator and to produce zero-filled test products.
package fits

import (
	"emperror.dev/errors"
)

const (
	// BlockSize is the FITS record length; headers and data sections are
	// padded to a multiple of it.
	BlockSize = 2880
	// CardSize is the length of one header card.
	CardSize = 80
)

var (
	ErrNotFITS   = errors.New("not a FITS file")
	ErrTruncated = errors.New("truncated FITS file")
)

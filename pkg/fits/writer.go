package fits

import (
	"io"
	"strconv"

	"emperror.dev/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Writer emits structural FITS files: standard-conformant headers followed
// by zero-filled data sections. It covers exactly what the dummy products
// need (64-bit float images and double-column binary tables).
type Writer struct {
	w    io.Writer
	hdus int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteImage appends an image HDU with the given row-major shape. The first
// HDU written becomes the primary; extra cards (the primary header keys) are
// emitted after the structural ones in sorted key order.
func (w *Writer) WriteImage(name string, shape []int, extra map[string]any) error {
	var cards [][]byte
	if w.hdus == 0 {
		cards = append(cards, formatCard("SIMPLE", true))
	} else {
		cards = append(cards, formatCard("XTENSION", "IMAGE"))
	}
	cards = append(cards, formatCard("BITPIX", -64), formatCard("NAXIS", len(shape)))
	for i := range shape {
		// NAXIS1 is the fastest-varying axis
		cards = append(cards, formatCard("NAXIS"+strconv.Itoa(i+1), shape[len(shape)-1-i]))
	}
	if w.hdus == 0 {
		cards = append(cards, formatCard("EXTEND", true))
	} else {
		cards = append(cards, formatCard("PCOUNT", 0), formatCard("GCOUNT", 1))
	}
	if name != "" {
		cards = append(cards, formatCard("EXTNAME", name))
	}
	keys := maps.Keys(extra)
	slices.Sort(keys)
	for _, key := range keys {
		cards = append(cards, formatCard(key, extra[key]))
	}

	elems := int64(1)
	for _, n := range shape {
		elems *= int64(n)
	}
	if len(shape) == 0 {
		elems = 0
	}
	return w.flush(name, cards, 8*elems)
}

// WriteTable appends a binary table of 64-bit float columns.
func (w *Writer) WriteTable(name string, columns []string, rows int) error {
	if w.hdus == 0 {
		return errors.New("table cannot be the primary HDU")
	}
	cards := [][]byte{
		formatCard("XTENSION", "BINTABLE"),
		formatCard("BITPIX", 8),
		formatCard("NAXIS", 2),
		formatCard("NAXIS1", 8*len(columns)),
		formatCard("NAXIS2", rows),
		formatCard("PCOUNT", 0),
		formatCard("GCOUNT", 1),
		formatCard("TFIELDS", len(columns)),
	}
	for i, col := range columns {
		n := strconv.Itoa(i + 1)
		cards = append(cards, formatCard("TTYPE"+n, col), formatCard("TFORM"+n, "D"))
	}
	if name != "" {
		cards = append(cards, formatCard("EXTNAME", name))
	}
	return w.flush(name, cards, int64(8*len(columns)*rows))
}

// flush writes the header (END card, block padding) and a zero-filled data
// section of dataLen bytes.
func (w *Writer) flush(name string, cards [][]byte, dataLen int64) error {
	cards = append(cards, padCard("END"))
	header := make([]byte, 0, padded(int64(len(cards)*CardSize)))
	for _, c := range cards {
		header = append(header, c...)
	}
	for int64(len(header))%BlockSize != 0 {
		header = append(header, padCard("")...)
	}
	if _, err := w.w.Write(header); err != nil {
		return errors.Wrapf(err, "cannot write header of %s", name)
	}

	zero := make([]byte, BlockSize)
	for remaining := padded(dataLen); remaining > 0; remaining -= BlockSize {
		if _, err := w.w.Write(zero); err != nil {
			return errors.Wrapf(err, "cannot write data of %s", name)
		}
	}
	w.hdus++
	return nil
}

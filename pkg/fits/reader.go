package fits

import (
	"io"
	"os"
	"strconv"

	"emperror.dev/errors"
	"github.com/kernel-phase/kpfits/pkg/kpfits"
)

// HDU is the structural description of one header-data unit.
type HDU struct {
	Index    int
	Name     string
	XType    string // XTENSION value; empty for the primary HDU
	Bitpix   int
	NAxes    []int // NAXISn in storage order (fastest axis first)
	Fields   int   // TFIELDS, tables only
	Header   map[string]any
	DataSize int64
}

// Table reports whether the HDU is a binary or ASCII table.
func (h *HDU) Table() bool {
	return h.XType == "BINTABLE" || h.XType == "TABLE"
}

// Shape returns the HDU geometry in row-major order. FITS stores the
// fastest-varying axis first, so image shapes come out reversed; tables are
// modeled uniformly as [rows, cols].
func (h *HDU) Shape() []int {
	if h.Table() {
		rows := 0
		if len(h.NAxes) >= 2 {
			rows = h.NAxes[1]
		}
		return []int{rows, h.Fields}
	}
	shape := make([]int, len(h.NAxes))
	for i, n := range h.NAxes {
		shape[len(h.NAxes)-1-i] = n
	}
	return shape
}

// Read parses every HDU of a FITS stream. Only headers are decoded; data
// sections are skipped by their declared size.
func Read(r io.Reader) ([]*HDU, error) {
	var hdus []*HDU
	for index := 0; ; index++ {
		hdu, err := readHDU(r, index)
		if err == io.EOF {
			if index == 0 {
				return nil, ErrNotFITS
			}
			return hdus, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "HDU %d", index)
		}
		hdus = append(hdus, hdu)
	}
}

// Load reads the HDU roster of the file at path.
func Load(path string) ([]*HDU, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	defer fp.Close()
	hdus, err := Read(fp)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	return hdus, nil
}

// LoadDirectory reads path and builds the validator's extension directory.
func LoadDirectory(path string) (kpfits.Directory, error) {
	hdus, err := Load(path)
	if err != nil {
		return nil, err
	}
	return BuildDirectory(hdus), nil
}

// BuildDirectory maps HDUs to extension descriptors. Unnamed extensions fall
// back to their numeric index, the unnamed first HDU to the canonical
// primary name. Name collisions resolve last-write-wins.
func BuildDirectory(hdus []*HDU) kpfits.Directory {
	dir := kpfits.Directory{}
	for _, hdu := range hdus {
		name := hdu.Name
		if name == "" {
			if hdu.Index == 0 {
				name = kpfits.PrimaryName
			} else {
				name = strconv.Itoa(hdu.Index)
			}
		}
		kind := kpfits.KindImage
		if hdu.Table() {
			kind = kpfits.KindTable
		}
		dir[name] = &kpfits.ExtensionDescriptor{
			Name:   name,
			Kind:   kind,
			Shape:  hdu.Shape(),
			Header: hdu.Header,
		}
	}
	return dir
}

// readHDU parses one header and skips its data section. io.EOF at the first
// byte of the header signals a clean end of file.
func readHDU(r io.Reader, index int) (*HDU, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	if index == 0 {
		if _, ok := header["SIMPLE"]; !ok {
			return nil, ErrNotFITS
		}
	} else if _, ok := header["XTENSION"]; !ok {
		return nil, errors.New("extension without XTENSION keyword")
	}

	hdu := &HDU{Index: index, Header: header}
	if s, ok := header["XTENSION"].(string); ok {
		hdu.XType = s
	}
	if s, ok := header["EXTNAME"].(string); ok {
		hdu.Name = s
	}
	if n, ok := intValue(header["BITPIX"]); ok {
		hdu.Bitpix = n
	}
	if n, ok := intValue(header["TFIELDS"]); ok {
		hdu.Fields = n
	}
	naxis, _ := intValue(header["NAXIS"])
	for i := 1; i <= naxis; i++ {
		n, ok := intValue(header["NAXIS"+strconv.Itoa(i)])
		if !ok {
			return nil, errors.Errorf("NAXIS%d missing", i)
		}
		hdu.NAxes = append(hdu.NAxes, n)
	}
	hdu.DataSize = dataSize(hdu.Bitpix, hdu.NAxes, header)

	if err := skip(r, padded(hdu.DataSize)); err != nil {
		return nil, errors.Wrap(err, "cannot skip data section")
	}
	return hdu, nil
}

// readHeader consumes header blocks up to and including the END card.
// Later duplicates of a keyword overwrite earlier ones.
func readHeader(r io.Reader) (map[string]any, error) {
	header := map[string]any{}
	block := make([]byte, BlockSize)
	first := true
	for {
		if _, err := io.ReadFull(r, block); err != nil {
			if err == io.EOF && first {
				return nil, io.EOF
			}
			return nil, ErrTruncated
		}
		first = false
		for off := 0; off < BlockSize; off += CardSize {
			c, err := parseCard(block[off : off+CardSize])
			if err != nil {
				return nil, err
			}
			switch c.key {
			case "END":
				return header, nil
			case "", "COMMENT", "HISTORY":
				continue
			}
			header[c.key] = c.value
		}
	}
}

// dataSize computes the byte length of the data section following a header.
func dataSize(bitpix int, naxes []int, header map[string]any) int64 {
	if len(naxes) == 0 {
		return 0
	}
	elems := int64(1)
	for _, n := range naxes {
		elems *= int64(n)
	}
	gcount := int64(1)
	if n, ok := intValue(header["GCOUNT"]); ok && n > 0 {
		gcount = int64(n)
	}
	pcount := int64(0)
	if n, ok := intValue(header["PCOUNT"]); ok && n > 0 {
		pcount = int64(n)
	}
	width := int64(bitpix)
	if width < 0 {
		width = -width
	}
	return width / 8 * gcount * (pcount + elems)
}

// padded rounds a data length up to the block size.
func padded(n int64) int64 {
	if n%BlockSize == 0 {
		return n
	}
	return (n/BlockSize + 1) * BlockSize
}

func skip(r io.Reader, n int64) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return ErrTruncated
	}
	return nil
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/kernel-phase/kpfits/pkg/fits"
	"github.com/kernel-phase/kpfits/pkg/kpfits"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:     "stat [file.fits]",
	Aliases: []string{"info"},
	Short:   "shows the HDU roster of a FITS file",
	Example: "kpfits stat ./product.fits",
	Args:    cobra.ExactArgs(1),
	Run:     doStat,
}

func initStat() {
}

func doStat(cmd *cobra.Command, args []string) {
	logger, lf := newLogger()
	defer lf.Close()

	path := args[0]
	hdus, err := fits.Load(path)
	if err != nil {
		logger.Error().Stack().Err(err).Msgf("cannot read '%s'", path)
		return
	}

	fmt.Printf("\n[%s]\n", path)
	for _, hdu := range hdus {
		name := hdu.Name
		if name == "" {
			if hdu.Index == 0 {
				name = kpfits.PrimaryName
			} else {
				name = strconv.Itoa(hdu.Index)
			}
		}
		kind := "image"
		if hdu.Table() {
			kind = "table"
		}
		fmt.Printf("   %2d  %-10s %-6s %-20s %s\n",
			hdu.Index, name, kind, shapeString(hdu.Shape()), humanize.Bytes(uint64(hdu.DataSize)))
	}
	fmt.Printf("%d HDUs\n", len(hdus))
}

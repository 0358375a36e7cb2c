package cmd

import (
	"math/rand"
	"os"
	"time"

	"github.com/kernel-phase/kpfits/pkg/fits"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:     "create [file.fits...]",
	Aliases: []string{"dummy"},
	Short:   "writes schema-conformant dummy products with random dimensions",
	Example: "kpfits create --seed 42 ./dummy.fits",
	Args:    cobra.MinimumNArgs(1),
	Run:     create,
}

func initCreate() {
	createCmd.Flags().Int64("seed", 0, "seed for the dimension generator (0 seeds from the clock)")
	createCmd.Flags().Bool("minimal", false, "write only the mandatory HDUs")
}

func doCreateConf(cmd *cobra.Command) {
	if n := getFlagInt64(cmd, "seed"); n != 0 {
		conf.Create.Seed = n
	}
	if getFlagBool(cmd, "minimal") {
		conf.Create.Minimal = true
	}
}

func create(cmd *cobra.Command, args []string) {
	logger, lf := newLogger()
	defer lf.Close()
	t := startTimer()
	defer func() { logger.Info().Msgf("Duration: %s", t.String()) }()

	doCreateConf(cmd)

	seed := conf.Create.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for _, path := range args {
		dims := fits.RandomDims(rng)
		logger.Info().
			Int("frames", dims.Frames).
			Int("wavelengths", dims.Wavelengths).
			Int("pixels", dims.Pixels).
			Int("kernels", dims.Kernels).
			Int("apertures", dims.Apertures).
			Int("uv_points", dims.UVPoints).
			Msgf("creating '%s'", path)
		fp, err := os.Create(path)
		if err != nil {
			logger.Error().Stack().Err(err).Msgf("cannot create '%s'", path)
			continue
		}
		if err := fits.WriteDummy(fp, dims, conf.Create.Minimal); err != nil {
			logger.Error().Stack().Err(err).Msgf("cannot write '%s'", path)
		}
		if err := fp.Close(); err != nil {
			logger.Error().Stack().Err(err).Msgf("cannot close '%s'", path)
		}
	}
}

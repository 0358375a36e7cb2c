package cmd

import (
	"os"

	"emperror.dev/emperror"
	"github.com/kernel-phase/kpfits/pkg/fits"
	"github.com/kernel-phase/kpfits/pkg/kpfits"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:     "validate [file.fits...]",
	Aliases: []string{"check"},
	Short:   "validates kernel-phase FITS files against the format schema",
	Example: "kpfits validate ./product.fits",
	Args:    cobra.MinimumNArgs(1),
	Run:     validate,
}

func initValidate() {
	validateCmd.Flags().Int("min-extensions", 0, "minimum HDU count for the truncation check")
}

func doValidateConf(cmd *cobra.Command) {
	if n := getFlagInt(cmd, "min-extensions"); n > 0 {
		conf.Validate.MinExtensions = n
	}
}

func validate(cmd *cobra.Command, args []string) {
	logger, lf := newLogger()
	defer lf.Close()
	t := startTimer()
	defer func() { logger.Info().Msgf("Duration: %s", t.String()) }()

	doValidateConf(cmd)

	validator := kpfits.NewValidator(
		kpfits.WithMinExtensions(conf.Validate.MinExtensions),
		kpfits.WithLogger(logger),
	)

	multiError := emperror.NewMultiErrorBuilder()
	invalid := 0
	unreadable := 0
	for _, path := range args {
		logger.Info().Msgf("validating '%s'", path)
		dir, err := fits.LoadDirectory(path)
		if err != nil {
			logger.Error().Stack().Err(err).Msgf("cannot load '%s'", path)
			multiError.Add(err)
			unreadable++
			invalid++
			continue
		}
		report := validator.Validate(dir)
		showReport(path, report)
		if !report.Valid {
			invalid++
		}
	}
	if err := multiError.ErrOrNil(); err != nil {
		logger.Error().Msgf("%d file(s) could not be read: %v", unreadable, err)
	}
	if invalid > 0 {
		lf.Close()
		os.Exit(1)
	}
}

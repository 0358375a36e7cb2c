package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/kernel-phase/kpfits/pkg/kpfits"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/cobra"
)

func startTimer() *timer {
	t := &timer{}
	t.Start()
	return t
}

type timer struct {
	start time.Time
}

func (t *timer) Start() {
	t.start = time.Now()
}

func (t *timer) String() string {
	delta := time.Now().Sub(t.start)
	return delta.String()
}

func getFlagString(cmd *cobra.Command, flag string) string {
	str, err := cmd.Flags().GetString(flag)
	if err != nil {
		_ = cmd.Help()
		cobra.CheckErr(errors.Errorf("canot get flag %s: %v", flag, err))
	}
	return str
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	b, err := cmd.Flags().GetBool(flag)
	if err != nil {
		_ = cmd.Help()
		cobra.CheckErr(errors.Errorf("canot get flag %s: %v", flag, err))
	}
	return b
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	n, err := cmd.Flags().GetInt(flag)
	if err != nil {
		_ = cmd.Help()
		cobra.CheckErr(errors.Errorf("canot get flag %s: %v", flag, err))
	}
	return n
}

func getFlagInt64(cmd *cobra.Command, flag string) int64 {
	n, err := cmd.Flags().GetInt64(flag)
	if err != nil {
		_ = cmd.Help()
		cobra.CheckErr(errors.Errorf("canot get flag %s: %v", flag, err))
	}
	return n
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger creates the zerolog instance for one command run, writing to the
// configured logfile or to a console writer on stderr.
func newLogger() (zerolog.Logger, io.Closer) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level, err := zerolog.ParseLevel(strings.ToLower(conf.LogLevel))
	if err != nil {
		log.Fatalf("cannot parse log level %s: %v", conf.LogLevel, err)
	}

	var out io.Writer
	var closer io.Closer = nopCloser{}
	if conf.LogFile != "" {
		fp, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("cannot open logfile %s: %v", conf.LogFile, err)
		}
		out = fp
		closer = fp
	} else {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer
}

// showReport prints one file's findings and verdict.
func showReport(name string, report *kpfits.Report) {
	fmt.Printf("\n[%s]\n", name)
	for _, f := range report.Findings {
		fmt.Printf("   %s\n", f)
	}
	if report.Valid {
		fmt.Printf("%s conforms to the kernel-phase format\n", name)
	} else {
		fmt.Printf("%s does NOT conform to the kernel-phase format\n", name)
	}
}

// shapeString renders a shape as 5x2x40.
func shapeString(shape []int) string {
	if len(shape) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(shape))
	for _, n := range shape {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, "x")
}

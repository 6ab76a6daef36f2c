package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arxeiss/lcovtrim/filter"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "embed"
)

var (
	//go:embed doc.go
	doc string

	debugFlag = flag.Bool("debug", false, "enable debug output")
	helpFlag  = flag.Bool("help", false, "show help")

	libFlag    = flag.String("lib", "lib", "directory holding statically scoped sources, never filtered")
	extFlag    = flag.String("ext", "c", "source extension used by the <function>_test.<ext> naming convention")
	testedFlag = flag.String("tested", "",
		"comma-separated function names to count as tested regardless of test files")
	aliasFlag = flag.String("alias-prefix", "",
		"private name prefix whose public counterpart's test also covers it (e.g. pcmk__)")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 || *helpFlag {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log := newLogger(*debugFlag)
	defer log.Sync() //nolint:errcheck // syncing stderr can fail, nothing to do about it

	runner := filter.New(os.Stdout, log, flag.Arg(0))
	runner.LibDir = *libFlag
	runner.Ext = *extFlag
	runner.AliasPrefix = *aliasFlag
	if *testedFlag != "" {
		runner.ExtraTested = strings.Split(*testedFlag, ",")
	}

	err := runner.Run(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())

		exitCode := 1
		os.Exit(exitCode)
	}
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	return log
}

func usage() {
	// Extract the content of the /* ... */ comment in doc.go.
	_, after, _ := strings.Cut(doc, "/*\n")
	doc, _, _ := strings.Cut(after, "*/")
	_, _ = os.Stderr.WriteString(doc + `
Flags:

`)
	flag.PrintDefaults()
}

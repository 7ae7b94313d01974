// Command manifest is stage 1 of the resampler: it discovers timing files
// under a date-partitioned directory tree, infers frame start times, and
// emits the manifest of frames overlapping a requested time window
// (spec.md §4.1, §6).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/busoc/resample/internal/config"
	"github.com/busoc/resample/internal/manifest"
	"github.com/busoc/resample/internal/rerr"
	"github.com/busoc/resample/internal/timeline"
)

const (
	Program   = "manifest"
	Version   = "1.0.0"
	BuildTime = "2026-07-31 00:00:00"
)

func init() {
	log.SetOutput(os.Stderr)
	log.SetPrefix(fmt.Sprintf("[%s-%s] ", Program, Version))

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-version] [-list-files] [-config file.toml] teldir stream tstart tend dt\n", Program)
		os.Exit(2)
	}
}

func main() {
	var (
		version    = flag.Bool("version", false, "print version and exit")
		listFiles  = flag.Bool("list-files", false, "run discovery only and print the scanned file list")
		configFile = flag.String("config", "", "optional ambient settings file")
	)
	flag.Parse()

	if *version {
		fmt.Fprintf(os.Stderr, "%s-%s (build: %s)\n", Program, Version, BuildTime)
		return
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			rerr.Exit(rerr.New(rerr.ArgumentInvalid, err))
		}
	}

	if flag.NArg() != 5 {
		rerr.Exit(rerr.BadUsage("expected teldir stream tstart tend dt"))
	}
	teldir := flag.Arg(0)
	stream := flag.Arg(1)

	tstart, err := timeline.ParseAbsolute(flag.Arg(2))
	if err != nil {
		rerr.Exit(rerr.New(rerr.ArgumentInvalid, err))
	}
	tend, err := timeline.ParseEnd(flag.Arg(3), tstart)
	if err != nil {
		rerr.Exit(rerr.New(rerr.ArgumentInvalid, err))
	}
	dt, err := time.ParseDuration(flag.Arg(4))
	if err != nil {
		rerr.Exit(rerr.New(rerr.ArgumentInvalid, err))
	}
	if !tstart.Before(tend) {
		rerr.Exit(rerr.BadUsage("tstart must be before tend"))
	}

	fmt.Printf("window: [%s, %s) dt=%s teldir=%s stream=%s\n",
		tstart.Format(time.RFC3339Nano), tend.Format(time.RFC3339Nano), dt, teldir, stream)

	warn := manifest.LogWarner{}
	if *listFiles {
		files, err := manifest.Discover(teldir, stream, tstart, tend)
		if err != nil {
			rerr.Exit(rerr.New(rerr.Generic, err))
		}
		for _, p := range manifest.Paths(files) {
			fmt.Println(p)
		}
		return
	}

	files, records, err := manifest.Build(teldir, stream, tstart, tend, dt, warn)
	if err != nil {
		rerr.Exit(rerr.New(rerr.Generic, err))
	}
	for _, p := range manifest.Paths(files) {
		fmt.Println(p)
	}

	out := stream + ".resample.txt"
	if err := manifest.Write(out, records, teldir, stream, tstart, tend, dt); err != nil {
		rerr.Exit(rerr.New(rerr.Generic, err))
	}
	log.Printf("%d records written to %s (%d files scanned, verbose=%v)", len(records), out, len(files), cfg.Verbose)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ivlev/entroscan/internal/config"
	"github.com/ivlev/entroscan/internal/engine"
	"github.com/ivlev/entroscan/internal/entropy"
	"github.com/ivlev/entroscan/internal/logger"
	"github.com/ivlev/entroscan/internal/source"
	"github.com/ivlev/entroscan/internal/system"
)

var buildVersion = "dev"

func main() {
	inputPtr := flag.String("input", "", "Path to an image, a directory of images, or a PDF (default: newest image in input/)")
	outputPtr := flag.String("output", "output", "Directory for highlighted images, masks and heatmaps")
	radiusPtr := flag.Int("radius", 5, "Neighborhood radius for local entropy (disk, in pixels)")
	tolerancePtr := flag.Float64("tolerance", 0.1, "Maximum allowed difference between channel entropies (bits)")
	dpiPtr := flag.Int("dpi", 300, "Rasterization DPI for PDF pages")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Worker count (clamped to available memory)")
	mapsPtr := flag.Bool("maps", false, "Also write per-channel entropy heatmaps")
	reportPtr := flag.String("report", "", "Report path (default: timestamped YAML in the output directory)")
	paramsPtr := flag.String("params", "", "Optional YAML params file overlaying the flags")
	statsPtr := flag.Bool("stats", false, "Print a performance report and append to benchmark.log")
	verbosePtr := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	logger.Setup(*verbosePtr)
	system.InitResourceLimits()

	for _, d := range []string{"input", *outputPtr} {
		os.MkdirAll(d, 0755)
	}

	cfg := &config.Config{
		InputPath:    *inputPtr,
		OutputDir:    *outputPtr,
		Radius:       *radiusPtr,
		Tolerance:    *tolerancePtr,
		DPI:          *dpiPtr,
		Workers:      *workersPtr,
		WriteMaps:    *mapsPtr,
		ReportPath:   *reportPtr,
		ShowStats:    *statsPtr,
		Verbose:      *verbosePtr,
		BuildVersion: buildVersion,
	}

	if *paramsPtr != "" {
		if err := cfg.LoadParams(*paramsPtr); err != nil {
			log.Fatal().Err(err).Msg("could not load params file")
		}
		fmt.Printf("[*] Params loaded: %s\n", *paramsPtr)
	}

	if cfg.InputPath == "" {
		latest, err := system.FindLatestImage("input", []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".pdf"})
		if err != nil {
			log.Fatal().Err(err).Msg("no input given and nothing found in input/")
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Selected input: %s\n", cfg.InputPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	var src source.Source
	var err error
	if strings.HasSuffix(strings.ToLower(cfg.InputPath), ".pdf") {
		src, err = source.NewFitzPDFSource(cfg.InputPath)
	} else {
		src, err = source.NewImageSource(cfg.InputPath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("could not open source")
	}
	defer src.Close()

	project := engine.NewProject(cfg, src)
	if err := project.Run(); err != nil {
		var verr *entropy.ValidationError
		if errors.As(err, &verr) {
			log.Fatal().Str("reason", verr.Reason).Msg("input rejected")
		}
		log.Fatal().Err(err).Msg("scan failed")
	}

	fmt.Printf("[+++] Done. Results in: %s\n", cfg.OutputDir)
}

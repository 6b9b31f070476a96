package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/esimov/mimica"
	"github.com/esimov/mimica/camera"
	"github.com/esimov/mimica/config"
	mlog "github.com/esimov/mimica/internal/log"
	"github.com/esimov/mimica/utils"
	"github.com/joho/godotenv"
)

const HelpBanner = `
┌┬┐┬┌┬┐┬┌─┐┌─┐
││││││││││  ├─┤
┴ ┴┴┴ ┴┴└─┘┴ ┴

Facial expression and pupil visibility heuristics.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// keyDelay is how long the preview window waits for a key press after every frame.
const keyDelay = 30 * time.Millisecond

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, directory or URL")
	destination = flag.String("out", "", "Annotated output image or directory")
	mode        = flag.String("mode", string(mimica.ExpressionMode), "Analysis mode: expression or pupil")
	cascade     = flag.String("cc", "", "Cascade classifier")
	confFile    = flag.String("conf", "", "YAML configuration file")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	debug       = flag.Bool("debug", false, "Log the measured features")
	device      = flag.Int("camera", -1, "Webcam device index (requires the gocv build tag)")
	faceAngle   = flag.Float64("angle", 0.0, "Plane rotated faces angle")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	// The .env file is optional.
	_ = godotenv.Load()

	level := config.Getenv(config.EnvLogLevel, "info")
	if *debug {
		level = "debug"
	}
	mlog.Init(level)

	cfg, err := loadConfig()
	if err != nil {
		fatal("Failed to load the configuration: %v", err)
	}

	opMode := mimica.Mode(*mode)
	if !opMode.Valid() {
		flag.Usage()
		fatal("Unsupported mode: %s", *mode)
	}

	ccPath := *cascade
	if ccPath == "" {
		ccPath = config.Getenv(config.EnvCascade, cfg.Detector.Cascade)
	}
	if ccPath == "" {
		flag.Usage()
		fatal("Please provide a face cascade classifier with the -cc flag or the %s variable!", config.EnvCascade)
	}

	opts := cfg.DetectorOptions()
	if *faceAngle != 0 {
		opts.Angle = *faceAngle
	}
	locator, err := mimica.LoadPigoLocator(ccPath, opts)
	if err != nil {
		fatal("Failed to load the face classifier: %v", err)
	}

	analyzer := mimica.NewAnalyzer(cfg.Thresholds())
	analyzer.Debug = *debug
	analyzer.Logger = mlog.L()

	p := mimica.NewPipeline(locator, analyzer)
	p.PupilThresholds = cfg.PupilThresholds()
	p.Options = cfg.FrameOptions()

	if *device >= 0 {
		interval, _ := cfg.Smoothing.GetInterval()
		if err := runLive(p, opMode, interval); err != nil {
			fatal("Live session failed: %v", err)
		}
		return
	}

	// Still images are analyzed as they are.
	p.Options.Mirror = false

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ MIMICA", utils.StatusMessage),
		utils.DecorateText("is analyzing the images...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	err = p.Execute(&mimica.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
		Mode:     opMode,
		Spinner:  spinner,
	})
	if err != nil {
		fatal("Error analyzing the image: %v", err)
	}
}

// loadConfig reads the YAML configuration given by the -conf flag or the MIMICA_CONFIG variable.
func loadConfig() (*config.Config, error) {
	path := *confFile
	if path == "" {
		path = config.Getenv(config.EnvConfig, "")
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// runLive analyzes the webcam stream until ESC is pressed or the process is interrupted.
func runLive(p *mimica.Pipeline, m mimica.Mode, interval time.Duration) error {
	src, err := camera.Open(*device)
	if err != nil {
		return err
	}
	defer src.Close()

	view, err := camera.NewWindow("mimica - " + string(m))
	if err != nil {
		mlog.Warn("preview window not available, running headless", "error", err)
		view = nil
	} else {
		defer view.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mlog.Info("live session started", "device", *device, "mode", m)
	fmt.Fprintln(os.Stderr, utils.DecorateText("SPACE: pause/capture, ESC: quit", utils.StatusMessage))

	err = p.Live(ctx, src, view, mimica.LiveOps{
		Mode:     m,
		Interval: interval,
		KeyDelay: keyDelay,
		Out:      os.Stdout,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func fatal(format string, args ...any) {
	log.Fatalf("%s%s\n", utils.DecorateText(fmt.Sprintf(format, args...), utils.ErrorMessage), utils.DefaultColor)
}

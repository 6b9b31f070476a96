package mimica

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/esimov/mimica/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Mode selects the analysis run over every frame.
type Mode string

const (
	ExpressionMode Mode = "expression"
	PupilMode      Mode = "pupil"
)

// Valid reports whether the mode is supported.
func (m Mode) Valid() bool {
	return m == ExpressionMode || m == PupilMode
}

// Ops holds the options of a batch run.
type Ops struct {
	// Src is a file, a directory, an URL or the pipe name.
	Src string
	// Dst is where the annotated images are written: a file, a directory
	// or the pipe name. Empty disables the annotated output.
	Dst      string
	PipeName string
	Workers  int
	Mode     Mode
	// Out receives one report line per image. Defaults to stdout, or stderr
	// when the annotated image is written to stdout.
	Out     io.Writer
	Spinner *utils.Spinner
}

// Report is the outcome of the analysis of a single image.
type Report struct {
	Path       string
	Mode       Mode
	Expression ExpressionFrame
	Pupil      PupilFrame
	Err        error
}

// Found reports whether a face has been located in the image.
func (r Report) Found() bool {
	if r.Mode == PupilMode {
		return r.Pupil.Found
	}
	return r.Expression.Found
}

// String formats the report as a single console line.
func (r Report) String() string {
	name := filepath.Base(r.Path)
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", name, r.Err)
	}
	if !r.Found() {
		return fmt.Sprintf("%s: no face detected", name)
	}
	if r.Mode == PupilMode {
		rd := r.Pupil.Reading
		return fmt.Sprintf("%s: pupil %3.0f%% %s %s mouth edges %.1f",
			name, rd.Percent, utils.ProgressBar(rd.Percent, 20), rd.State, r.Pupil.MouthEdges)
	}
	res := r.Expression.Result
	line := fmt.Sprintf("%s: %s (%.2f)", name, res.Label, res.Confidence)
	if res.IsFallback() {
		line += fmt.Sprintf(" [%s]", res.Fallback)
	}
	return line
}

// Execute runs the analysis over the source image, or over every supported image found
// in the source directory, and writes a report line per image.
func (p *Pipeline) Execute(op *Ops) error {
	if !op.Mode.Valid() {
		return fmt.Errorf("unsupported mode: %q", op.Mode)
	}
	out := op.Out
	if out == nil {
		out = os.Stdout
		if op.Dst != "" && op.Dst == op.PipeName {
			out = os.Stderr
		}
	}

	var (
		fs  os.FileInfo
		err error
		src = op.Src
	)

	// Check if source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		tmp, err := utils.DownloadImage(op.Src)
		if tmp != nil {
			defer os.Remove(tmp.Name())
			tmp.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		src = tmp.Name()
		fs, err = os.Stat(src)
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
	} else {
		// Check if the source is a pipe name or a regular file.
		if op.Src == op.PipeName {
			fs, err = os.Stdin.Stat()
		} else {
			fs, err = os.Stat(op.Src)
		}
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
	}

	if op.Spinner != nil {
		op.Spinner.Start()
		defer op.Spinner.Stop()
	}

	now := time.Now()
	switch mode := fs.Mode(); {
	case mode.IsDir():
		if op.Dst != "" {
			if err := os.MkdirAll(op.Dst, 0755); err != nil {
				return fmt.Errorf("unable to create the destination directory: %w", err)
			}
		}
		err = p.executeDir(op, out)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || op.Src == op.PipeName:
		if op.Dst != "" && op.Dst != op.PipeName && !isValidExtension(filepath.Ext(op.Dst)) {
			return fmt.Errorf("%v file type not supported", filepath.Ext(op.Dst))
		}
		rep := p.process(op, src, op.Dst)
		rep.Path = op.Src
		fmt.Fprintln(out, rep)
		err = rep.Err
	default:
		return fmt.Errorf("unsupported source: %s", op.Src)
	}

	if op.Spinner != nil {
		op.Spinner.StopMsg = fmt.Sprintf("%s %s\n",
			utils.DecorateText("⚡ MIMICA", utils.StatusMessage),
			utils.DecorateText("done in "+utils.FormatTime(time.Since(now)), utils.SuccessMessage),
		)
	}
	return err
}

// executeDir processes recursively the image files of the source directory concurrently.
// It returns the first error encountered, after every image has been processed.
func (p *Pipeline) executeDir(op *Ops, out io.Writer) error {
	workers := op.Workers
	// Limit the concurrently running workers to maxWorkers.
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan Report)
	done := make(chan interface{})
	defer close(done)

	paths, errc := walkDir(done, op.Src, SupportedExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			p.consumer(op, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var firstErr error
	for rep := range ch {
		if rep.Err != nil && firstErr == nil {
			firstErr = rep.Err
		}
		fmt.Fprintln(out, rep)
	}
	if err := <-errc; err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// consumer reads the path names from the paths channel and analyzes every image.
func (p *Pipeline) consumer(
	op *Ops,
	res chan<- Report,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		dst := ""
		if op.Dst != "" {
			dst = filepath.Join(op.Dst, filepath.Base(src))
		}
		rep := p.process(op, src, dst)

		select {
		case <-done:
			return
		case res <- rep:
		}
	}
}

// process analyzes a single image and writes its annotated version into dst, when provided.
func (p *Pipeline) process(op *Ops, in, out string) Report {
	rep := Report{Path: in, Mode: op.Mode}

	if in != op.PipeName {
		ctype, err := utils.DetectContentType(in)
		if err != nil {
			rep.Err = fmt.Errorf("unable to read the source file: %w", err)
			return rep
		}
		if !strings.HasPrefix(ctype, "image/") {
			rep.Err = fmt.Errorf("unsupported content type: %s", ctype)
			return rep
		}
	}

	src, err := op.openSource(in)
	if err != nil {
		rep.Err = err
		return rep
	}
	defer src.Close()

	img, err := DecodeImage(src)
	if err != nil {
		rep.Err = err
		return rep
	}

	var annotated image.Image
	switch op.Mode {
	case PupilMode:
		rep.Pupil, rep.Err = p.Pupil(img)
		if rep.Err == nil {
			annotated = AnnotatePupil(rep.Pupil)
		}
	default:
		rep.Expression, rep.Err = p.Expression(img, nil, time.Now())
		if rep.Err == nil {
			annotated = Annotate(rep.Expression)
		}
	}
	if rep.Err != nil || out == "" {
		return rep
	}
	rep.Err = op.writeImage(out, annotated)
	return rep
}

// openSource opens the source file, or stdin when the pipe name is used.
func (op *Ops) openSource(in string) (io.ReadCloser, error) {
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(in)
	if err != nil {
		return nil, fmt.Errorf("unable to open the source file: %w", err)
	}
	return f, nil
}

// writeImage encodes the image into the destination file, or stdout when the pipe name is used.
func (op *Ops) writeImage(out string, img image.Image) error {
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
		return EncodeImage(os.Stdout, img, ".png")
	}

	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	if err := EncodeImage(dst, img, filepath.Ext(out)); err != nil {
		dst.Close()
		// remove the generated image file in case of an error
		os.Remove(out)
		return err
	}
	return dst.Close()
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				select {
				case <-done:
					return errors.New("directory walk cancelled")
				case pathChan <- path:
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string) bool {
	return utils.Contains(SupportedExtensions, strings.ToLower(ext))
}

package mimica

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/esimov/mimica/camera"
	"github.com/esimov/mimica/utils"
)

// LiveOps holds the options of a live session.
type LiveOps struct {
	Mode Mode
	// Interval is the expression smoothing interval.
	Interval time.Duration
	// KeyDelay is how long the viewer waits for a key press after every frame.
	KeyDelay time.Duration
	Out      io.Writer
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Live analyzes the frames delivered by src until the stream ends, the context is
// cancelled or ESC is pressed in the viewer. The viewer is optional.
//
// In expression mode every committed change of expression is printed and SPACE
// pauses the analysis. In pupil mode SPACE prints the current reading; without a
// viewer every change of the reading is printed.
func (p *Pipeline) Live(ctx context.Context, src camera.Source, view camera.Viewer, op LiveOps) error {
	if !op.Mode.Valid() {
		return fmt.Errorf("unsupported mode: %q", op.Mode)
	}
	now := op.Now
	if now == nil {
		now = time.Now
	}
	out := op.Out
	if out == nil {
		out = io.Discard
	}

	var (
		smoother = NewSmoother(op.Interval, now())
		last     Label
		reading  PupilFrame
		lastLine string
		paused   bool
		shown    image.Image
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := src.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, camera.ErrEmptyFrame) {
				continue
			}
			return fmt.Errorf("cannot read the frame: %w", err)
		}

		switch {
		case paused:
		case op.Mode == PupilMode:
			if reading, err = p.Pupil(frame); err != nil {
				return err
			}
			shown = AnnotatePupil(reading)
			if view == nil {
				// Without a window there is no capture key: report every change instead.
				line := pupilLine(reading.Reading)
				if line != lastLine {
					lastLine = line
					fmt.Fprintf(out, "pupil: %s\n", line)
				}
			}
		default:
			f, err := p.Expression(frame, smoother, now())
			if err != nil {
				return err
			}
			if f.State.Label != last {
				last = f.State.Label
				fmt.Fprintf(out, "expression: %s (%.2f)\n", f.State.Label, f.State.Confidence)
			}
			shown = Annotate(f)
		}

		if view == nil {
			continue
		}
		if shown != nil {
			if err := view.Show(shown); err != nil {
				return err
			}
		}

		switch view.Key(op.KeyDelay) {
		case camera.KeyEsc:
			return nil
		case camera.KeySpace:
			if op.Mode == PupilMode {
				fmt.Fprintf(out, "captured: %s\n", pupilLine(reading.Reading))
				continue
			}
			paused = !paused
			if paused {
				fmt.Fprintln(out, "paused")
			} else {
				fmt.Fprintln(out, "resumed")
			}
		}
	}
}

func pupilLine(rd PupilReading) string {
	return fmt.Sprintf("%.0f%% %s %s", rd.Percent, utils.ProgressBar(rd.Percent, 20), rd.State)
}

// Package config loads the YAML configuration of the mimica command.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/esimov/mimica"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Expression ExpressionConfig `yaml:"expression"`
	Pupil      PupilConfig      `yaml:"pupil"`
	Detector   DetectorConfig   `yaml:"detector"`
	Smoothing  SmoothingConfig  `yaml:"smoothing"`
	Frame      FrameConfig      `yaml:"frame"`
}

type ExpressionConfig struct {
	MinFaceSize int     `yaml:"min_face_size"`
	CannyLow    float64 `yaml:"canny_low"`
	CannyHigh   float64 `yaml:"canny_high"`
	BlurRadius  int     `yaml:"blur_radius"` // 0 disables the pre-smoothing

	Surprise RuleConfig `yaml:"surprise"`
	Happy    RuleConfig `yaml:"happy"`
	Angry    RuleConfig `yaml:"angry"`
	Sad      RuleConfig `yaml:"sad"`

	NeutralConfidence float64 `yaml:"neutral_confidence"`
}

// RuleConfig holds the constants of a single classification rule. Not every rule uses every field.
type RuleConfig struct {
	Edge          float64 `yaml:"edge"`
	Eyes          float64 `yaml:"eyes"`
	Mouth         float64 `yaml:"mouth"`
	Divisor       float64 `yaml:"divisor"`
	Confidence    float64 `yaml:"confidence"`
	MaxConfidence float64 `yaml:"max_confidence"`
}

type PupilConfig struct {
	MinWidth      int     `yaml:"min_width"`
	MinHeight     int     `yaml:"min_height"`
	EdgeContrast  int     `yaml:"edge_contrast"`
	BorderMargin  int     `yaml:"border_margin"`
	BorderPenalty float64 `yaml:"border_penalty"`
}

type DetectorConfig struct {
	Cascade          string  `yaml:"cascade"` // path to the pigo facefinder cascade
	MinSize          int     `yaml:"min_size"`
	MaxSize          int     `yaml:"max_size"`
	ShiftFactor      float64 `yaml:"shift_factor"`
	ScaleFactor      float64 `yaml:"scale_factor"`
	IoUThreshold     float64 `yaml:"iou_threshold"`
	QualityThreshold float32 `yaml:"quality_threshold"`
	Angle            float64 `yaml:"angle"`
}

type SmoothingConfig struct {
	Interval string `yaml:"interval"` // e.g. "400ms"
}

type FrameConfig struct {
	Mirror   bool `yaml:"mirror"`
	MaxWidth int  `yaml:"max_width"`
}

// Default returns the configuration matching the library defaults.
func Default() *Config {
	t := mimica.DefaultThresholds()
	p := mimica.DefaultPupilThresholds()
	d := mimica.DefaultDetectorOptions()
	f := mimica.DefaultFrameOptions()

	return &Config{
		Expression: ExpressionConfig{
			MinFaceSize: t.MinFaceSize,
			CannyLow:    t.CannyLow,
			CannyHigh:   t.CannyHigh,
			BlurRadius:  t.BlurRadius,
			Surprise: RuleConfig{
				Edge:          t.SurpriseEdge,
				Divisor:       t.SurpriseDivisor,
				MaxConfidence: t.SurpriseMaxConf,
			},
			Happy: RuleConfig{
				Edge:          t.HappyEdge,
				Eyes:          t.HappyEyes,
				Divisor:       t.HappyDivisor,
				MaxConfidence: t.HappyMaxConf,
			},
			Angry: RuleConfig{
				Edge:       t.AngryEdge,
				Eyes:       t.AngryEyes,
				Confidence: t.AngryConf,
			},
			Sad: RuleConfig{
				Mouth:      t.SadMouth,
				Eyes:       t.SadEyes,
				Confidence: t.SadConf,
			},
			NeutralConfidence: t.NeutralConf,
		},
		Pupil: PupilConfig{
			MinWidth:      p.MinWidth,
			MinHeight:     p.MinHeight,
			EdgeContrast:  p.EdgeContrast,
			BorderMargin:  p.BorderMargin,
			BorderPenalty: p.BorderPenalty,
		},
		Detector: DetectorConfig{
			MinSize:          d.MinSize,
			MaxSize:          d.MaxSize,
			ShiftFactor:      d.ShiftFactor,
			ScaleFactor:      d.ScaleFactor,
			IoUThreshold:     d.IoUThreshold,
			QualityThreshold: d.QualityThreshold,
			Angle:            d.Angle,
		},
		Smoothing: SmoothingConfig{
			Interval: mimica.DefaultSmoothInterval.String(),
		},
		Frame: FrameConfig{
			Mirror:   f.Mirror,
			MaxWidth: f.MaxWidth,
		},
	}
}

// Load reads the YAML file found at path. Keys missing from the file keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading the configuration file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document on top of the default configuration and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the consistency of the configuration values.
func (c *Config) Validate() error {
	var errs []error

	e := c.Expression
	if e.MinFaceSize < 1 {
		errs = append(errs, errors.New("expression.min_face_size must be positive"))
	}
	if e.CannyLow < 0 || e.CannyHigh < e.CannyLow {
		errs = append(errs, fmt.Errorf("invalid canny thresholds: low %v, high %v", e.CannyLow, e.CannyHigh))
	}
	if e.BlurRadius < 0 {
		errs = append(errs, errors.New("expression.blur_radius cannot be negative"))
	}
	if e.Surprise.Divisor <= 0 || e.Happy.Divisor <= 0 {
		errs = append(errs, errors.New("confidence divisors must be positive"))
	}
	if c.Pupil.BorderPenalty < 0 || c.Pupil.BorderPenalty > 1 {
		errs = append(errs, errors.New("pupil.border_penalty must be in the [0, 1] range"))
	}
	if c.Detector.MinSize < 1 {
		errs = append(errs, errors.New("detector.min_size must be positive"))
	}
	if c.Detector.ScaleFactor <= 1 {
		errs = append(errs, errors.New("detector.scale_factor must be greater than 1"))
	}
	if c.Detector.Angle < 0 || c.Detector.Angle > 1 {
		errs = append(errs, errors.New("detector.angle must be in the [0, 1] range"))
	}
	if _, err := c.Smoothing.GetInterval(); err != nil {
		errs = append(errs, err)
	}
	if c.Frame.MaxWidth < 0 {
		errs = append(errs, errors.New("frame.max_width cannot be negative"))
	}
	return errors.Join(errs...)
}

// GetInterval returns the minimum time between two committed expression changes.
func (s SmoothingConfig) GetInterval() (time.Duration, error) {
	d, err := time.ParseDuration(s.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid smoothing.interval %q: %w", s.Interval, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("smoothing.interval cannot be negative: %v", d)
	}
	return d, nil
}

// Thresholds converts the expression section into classifier thresholds.
func (c *Config) Thresholds() mimica.Thresholds {
	e := c.Expression
	return mimica.Thresholds{
		MinFaceSize: e.MinFaceSize,
		CannyLow:    e.CannyLow,
		CannyHigh:   e.CannyHigh,
		BlurRadius:  e.BlurRadius,

		SurpriseEdge:    e.Surprise.Edge,
		SurpriseDivisor: e.Surprise.Divisor,
		SurpriseMaxConf: e.Surprise.MaxConfidence,

		HappyEdge:    e.Happy.Edge,
		HappyEyes:    e.Happy.Eyes,
		HappyDivisor: e.Happy.Divisor,
		HappyMaxConf: e.Happy.MaxConfidence,

		AngryEyes: e.Angry.Eyes,
		AngryEdge: e.Angry.Edge,
		AngryConf: e.Angry.Confidence,

		SadMouth: e.Sad.Mouth,
		SadEyes:  e.Sad.Eyes,
		SadConf:  e.Sad.Confidence,

		NeutralConf: e.NeutralConfidence,
	}
}

// PupilThresholds converts the pupil section into the pupil meter constants.
func (c *Config) PupilThresholds() mimica.PupilThresholds {
	return mimica.PupilThresholds(c.Pupil)
}

// DetectorOptions converts the detector section into the pigo cascade parameters.
func (c *Config) DetectorOptions() mimica.DetectorOptions {
	d := c.Detector
	return mimica.DetectorOptions{
		MinSize:          d.MinSize,
		MaxSize:          d.MaxSize,
		ShiftFactor:      d.ShiftFactor,
		ScaleFactor:      d.ScaleFactor,
		IoUThreshold:     d.IoUThreshold,
		QualityThreshold: d.QualityThreshold,
		Angle:            d.Angle,
	}
}

// FrameOptions converts the frame section into the pipeline frame options.
func (c *Config) FrameOptions() mimica.FrameOptions {
	return mimica.FrameOptions(c.Frame)
}

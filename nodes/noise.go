// Copyright 2020, Square, Inc.

package nodes

import (
	"fmt"
	"math/rand"

	"github.com/square/imageflow/image"
	"github.com/square/imageflow/node"
)

// Noise types.
const (
	NOISE_GAUSSIAN    = "gaussian"
	NOISE_UNIFORM     = "uniform"
	NOISE_SALT_PEPPER = "salt-pepper"
)

const saltPepperBase = 128 // mid-gray background for salt-pepper noise

// Noise generates a noise image: zero inputs, one output. It is a
// generator, so readiness comes from its configuration, not from wiring.
// Each Process reseeds from the configured seed, so a run is reproducible
// and Process is idempotent for fixed parameters.
type Noise struct {
	node.Base
	noiseType string
	width     int
	height    int
	channels  int
	mean      float64 // gaussian
	stdDev    float64 // gaussian
	low       float64 // uniform
	high      float64 // uniform
	saltRatio float64 // salt-pepper: fraction of noisy pixels that are salt
	density   float64 // salt-pepper: fraction of pixels that are noisy
	seed      int64
}

// NoiseConfig holds the generator's parameters. Zero values get defaults
// from DefaultNoiseConfig.
type NoiseConfig struct {
	Type      string
	Width     int
	Height    int
	Channels  int
	Mean      float64
	StdDev    float64
	Low       float64
	High      float64
	SaltRatio float64
	Density   float64
	Seed      int64
}

// DefaultNoiseConfig mirrors the generator's historical defaults.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Type:      NOISE_GAUSSIAN,
		Width:     512,
		Height:    512,
		Channels:  3,
		Mean:      0,
		StdDev:    1,
		Low:       0,
		High:      1,
		SaltRatio: 0.5,
		Density:   0.05,
	}
}

func NewNoise(name string, cfg NoiseConfig) (*Noise, error) {
	switch cfg.Type {
	case NOISE_GAUSSIAN, NOISE_UNIFORM, NOISE_SALT_PEPPER:
	default:
		return nil, fmt.Errorf("unknown noise type %q", cfg.Type)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("noise dimensions must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Channels < 1 || cfg.Channels > 4 {
		return nil, fmt.Errorf("noise channels must be 1-4, got %d", cfg.Channels)
	}
	return &Noise{
		Base:      node.NewBase(name),
		noiseType: cfg.Type,
		width:     cfg.Width,
		height:    cfg.Height,
		channels:  cfg.Channels,
		mean:      cfg.Mean,
		stdDev:    cfg.StdDev,
		low:       cfg.Low,
		high:      cfg.High,
		saltRatio: cfg.SaltRatio,
		density:   cfg.Density,
		seed:      cfg.Seed,
	}, nil
}

func makeNoise(name string, params map[string]interface{}) (node.Node, error) {
	cfg := DefaultNoiseConfig()
	var err error
	if cfg.Type, err = stringParam(params, "type", cfg.Type); err != nil {
		return nil, err
	}
	if cfg.Width, err = intParam(params, "width", cfg.Width); err != nil {
		return nil, err
	}
	if cfg.Height, err = intParam(params, "height", cfg.Height); err != nil {
		return nil, err
	}
	if cfg.Channels, err = intParam(params, "channels", cfg.Channels); err != nil {
		return nil, err
	}
	if cfg.Mean, err = floatParam(params, "mean", cfg.Mean); err != nil {
		return nil, err
	}
	if cfg.StdDev, err = floatParam(params, "stddev", cfg.StdDev); err != nil {
		return nil, err
	}
	if cfg.Low, err = floatParam(params, "low", cfg.Low); err != nil {
		return nil, err
	}
	if cfg.High, err = floatParam(params, "high", cfg.High); err != nil {
		return nil, err
	}
	if cfg.SaltRatio, err = floatParam(params, "salt_ratio", cfg.SaltRatio); err != nil {
		return nil, err
	}
	if cfg.Density, err = floatParam(params, "density", cfg.Density); err != nil {
		return nil, err
	}
	if cfg.Seed, err = int64Param(params, "seed", cfg.Seed); err != nil {
		return nil, err
	}
	return NewNoise(name, cfg)
}

func (n *Noise) NoiseType() string { return n.noiseType }

func (n *Noise) InputCount() int  { return 0 }
func (n *Noise) OutputCount() int { return 1 }

func (n *Noise) InputName(i int) string {
	return "" // no inputs
}

func (n *Noise) OutputName(i int) string {
	if i == 0 {
		return "Noise Image"
	}
	return ""
}

// Ready is derived from configuration: the constructor validates it, so a
// constructed Noise is always ready.
func (n *Noise) Ready(in node.Inputs) bool {
	return n.width > 0 && n.height > 0
}

func (n *Noise) Process(in node.Inputs) error {
	rng := rand.New(rand.NewSource(n.seed))
	out := image.New(n.width, n.height, n.channels)

	switch n.noiseType {
	case NOISE_GAUSSIAN:
		for i := range out.Pix {
			out.Pix[i] = image.ClampFloat(n.mean + n.stdDev*rng.NormFloat64())
		}
	case NOISE_UNIFORM:
		for i := range out.Pix {
			out.Pix[i] = image.ClampFloat(n.low + (n.high-n.low)*rng.Float64())
		}
	case NOISE_SALT_PEPPER:
		for i := range out.Pix {
			out.Pix[i] = saltPepperBase
		}
		// Whole pixels go to salt or pepper so channels stay correlated.
		for p := 0; p < n.width*n.height; p++ {
			if rng.Float64() >= n.density {
				continue
			}
			v := uint8(0)
			if rng.Float64() < n.saltRatio {
				v = 255
			}
			for c := 0; c < n.channels; c++ {
				out.Pix[p*n.channels+c] = v
			}
		}
	}

	n.SetOutput(0, out)
	return nil
}

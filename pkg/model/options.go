package model

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

const (
	DefaultSpeed     = 1
	DefaultAttempts  = 20
	DefaultMaxSpread = 2
)

type Options struct {
	// Only every Speed-th combination of block-sets is evaluated
	Speed int
	// Number of fresh allocations the refiner tries before settling for the best one
	Attempts int
	// Largest accepted difference between the most and least populated (nonzero) classes of a subject
	MaxSpread int
	// Keep searching when a feasible blocking cannot be balanced within MaxSpread
	StrictBalance bool

	// Random source used to shuffle blocks; when nil a PCG source seeded with Seed is used
	Source rand.Source
	Seed   uint64

	Logger  *zap.Logger
	Metrics *Metrics
}

func DefaultOptions() Options {
	return Options{
		Speed:     DefaultSpeed,
		Attempts:  DefaultAttempts,
		MaxSpread: DefaultMaxSpread,
	}
}

func (options Options) normalized() Options {
	if options.Speed < 1 {
		options.Speed = DefaultSpeed
	}
	if options.Attempts < 1 {
		options.Attempts = DefaultAttempts
	}
	if options.MaxSpread < 0 {
		options.MaxSpread = DefaultMaxSpread
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Metrics == nil {
		options.Metrics = NewMetrics(nil)
	}
	return options
}

func (options Options) random() *rand.Rand {
	if options.Source != nil {
		return rand.New(options.Source)
	}
	return rand.New(rand.NewPCG(options.Seed, options.Seed^0x9e3779b97f4a7c15))
}

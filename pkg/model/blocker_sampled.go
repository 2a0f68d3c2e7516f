package model

import "time"

const (
	StrategySampled = "sampled"
	StrategyExact   = "exact"
)

type sampledBlocker struct {
	options Options
}

// NewSampledBlocker builds timetables by enumerating block-set combinations, evaluating one in every options.Speed
func NewSampledBlocker(options Options) Blocker {
	return &sampledBlocker{
		options: options.normalized(),
	}
}

func (blocker *sampledBlocker) Build(modelInput ModelInput) (Timetable, error) {
	start := time.Now()
	defer func() {
		blocker.options.Metrics.SearchDuration.WithLabelValues(StrategySampled).Observe(time.Since(start).Seconds())
	}()

	state := newSearchState(modelInput, blocker.options)
	state.logDiagnostics()

	//** Pin single-section subjects
	if err := state.prefilter(); err != nil {
		return Timetable{}, err
	}

	//** Search, allocate and refine
	timetable, err := state.search()
	if err != nil {
		return Timetable{}, err
	}

	state.logStats(timetable)
	return timetable, nil
}

func (blocker *sampledBlocker) Verify(timetable Timetable, modelInput ModelInput) bool {
	return verify(timetable, modelInput)
}

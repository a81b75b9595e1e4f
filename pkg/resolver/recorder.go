package resolver

import "time"

// Recorder receives resolution events, typically to export metrics.
type Recorder interface {
	// ObserveTier is called once per part with the tier that produced
	// its symbol, or "" when none did.
	ObserveTier(tier string)
	// ObserveTierFailure is called when an attempted tier gave up.
	ObserveTierFailure(tier string)
	// ObserveExternal records the duration of one external tool run.
	ObserveExternal(d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTier(string)                   {}
func (nopRecorder) ObserveTierFailure(string)            {}
func (nopRecorder) ObserveExternal(time.Duration, error) {}

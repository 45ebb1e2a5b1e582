package umbra

import "log"

// frameStats holds per-frame light loop metrics.
// Only collected when Engine.DebugDraw is true.
type frameStats struct {
	lightsDrawn   int
	lightsSkipped int
	shadowDraws   int
}

// logStats reports frame metrics through the engine's logger.
func (e *Engine) logStats(stats frameStats) {
	e.logf("[umbra] lights drawn: %d | skipped: %d | shadow draws: %d",
		stats.lightsDrawn, stats.lightsSkipped, stats.shadowDraws)
}

// logf routes diagnostics to the injected logger, falling back to the
// standard log package.
func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger(format, args...)
		return
	}
	log.Printf(format, args...)
}

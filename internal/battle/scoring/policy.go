package scoring

// Battle modes (duplicated here to avoid an import cycle with the battle
// package).
const (
	ModeFastest = "fastest"
	ModePoints  = "points"
)

// Config holds configurable scoring constants (defaults match requirements).
type Config struct {
	CorrectBase    int   // default: 10
	FastestPenalty int   // default: 2 (deducted on a wrong answer in fastest mode)
	PointsPenalty  int   // default: 1 (deducted on a wrong answer in points mode)
	FastBonus      int   // default: 5
	MediumBonus    int   // default: 3
	SlowBonus      int   // default: 1
	FastCutoffMs   int64 // default: 1000
	MediumCutoffMs int64 // default: 2000
	SlowCutoffMs   int64 // default: 3000
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		CorrectBase:    10,
		FastestPenalty: 2,
		PointsPenalty:  1,
		FastBonus:      5,
		MediumBonus:    3,
		SlowBonus:      1,
		FastCutoffMs:   1000,
		MediumCutoffMs: 2000,
		SlowCutoffMs:   3000,
	}
}

// Policy computes mode-specific score deltas. Pure functions over
// (correctness, latency, mode).
type Policy struct {
	config Config
}

// NewPolicy creates a policy with the provided config (zero CorrectBase picks
// defaults).
func NewPolicy(config Config) *Policy {
	if config.CorrectBase == 0 {
		config = DefaultConfig()
	}
	return &Policy{config: config}
}

// SpeedBonus returns the additional points for a fast answer in points mode.
func (p *Policy) SpeedBonus(timeMs int64) int {
	switch {
	case timeMs <= p.config.FastCutoffMs:
		return p.config.FastBonus
	case timeMs <= p.config.MediumCutoffMs:
		return p.config.MediumBonus
	case timeMs <= p.config.SlowCutoffMs:
		return p.config.SlowBonus
	default:
		return 0
	}
}

// ScoreDelta returns the signed score change for one answer.
func (p *Policy) ScoreDelta(mode string, correct bool, timeMs int64) int {
	if mode == ModePoints {
		if correct {
			return p.config.CorrectBase + p.SpeedBonus(timeMs)
		}
		return -p.config.PointsPenalty
	}
	// fastest
	if correct {
		return p.config.CorrectBase
	}
	return -p.config.FastestPenalty
}

// Apply adds a delta to a running score, clamping at zero after each step. A
// score that would go negative snaps to 0 immediately, so later gains build
// from 0 rather than from a hidden deficit.
func (p *Policy) Apply(score, delta int) int {
	score += delta
	if score < 0 {
		return 0
	}
	return score
}

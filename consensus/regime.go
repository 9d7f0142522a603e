package consensus

import "github.com/symposium-ai/symposium/core"

// Regime is the weighting tier selected by total platform participant
// count. Human votes always carry full weight; agent weight shrinks as the
// human population grows.
type Regime string

const (
	// RegimeBootstrap applies while participants < 100.
	RegimeBootstrap Regime = "bootstrap"
	// RegimeGrowth applies while 100 <= participants < 1000.
	RegimeGrowth Regime = "growth"
	// RegimeMature applies once participants >= 1000.
	RegimeMature Regime = "mature"
)

// Regime population thresholds.
const (
	growthThreshold = 100
	matureThreshold = 1000
)

// RegimeFor selects the regime for a participant population. It is a pure
// function of the count.
func RegimeFor(participants int) Regime {
	switch {
	case participants >= matureThreshold:
		return RegimeMature
	case participants >= growthThreshold:
		return RegimeGrowth
	default:
		return RegimeBootstrap
	}
}

// HumanWeight returns the vote weight for human voters under this regime.
func (r Regime) HumanWeight() float64 { return 1.0 }

// AgentWeight returns the vote weight for agent voters under this regime.
func (r Regime) AgentWeight() float64 {
	switch r {
	case RegimeMature:
		return 0.1
	case RegimeGrowth:
		return 0.3
	default:
		return 0.5
	}
}

// WeightFor returns the weight for a voter class under this regime.
func (r Regime) WeightFor(class core.VoterClass) float64 {
	if class == core.VoterHuman {
		return r.HumanWeight()
	}
	return r.AgentWeight()
}

package evaluation

import "fmt"

type GuardrailConfig struct {
	MaxK            int
	MinObservations int
}

// Guardrails bounds the k range and flags systems with too few observations
// for their recall to mean much.
type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	if config.MaxK <= 0 {
		config.MaxK = 10
	}
	if config.MinObservations <= 0 {
		config.MinObservations = 1
	}
	return &Guardrails{config: config}
}

// CheckK rejects thresholds outside 1..MaxK.
func (g *Guardrails) CheckK(k int) error {
	if k < 1 || k > g.config.MaxK {
		return fmt.Errorf("k must be between 1 and %d, got %d", g.config.MaxK, k)
	}
	return nil
}

// Sparse returns the systems whose curve rests on fewer than
// MinObservations observations.
func (g *Guardrails) Sparse(curves []Curve) []string {
	var sparse []string
	for _, c := range curves {
		if c.Observations < g.config.MinObservations {
			sparse = append(sparse, c.System)
		}
	}
	return sparse
}

package value

// ProductionCosts are the landowner's fixed costs for one season scenario.
// They are applied once per scenario, not per offer.
type ProductionCosts struct {
	Fertilizer float64 `json:"fertilizer"`
	Labor      float64 `json:"labor"`
	Transport  float64 `json:"transport"`
}

func (c ProductionCosts) Total() float64 {
	return c.Fertilizer + c.Labor + c.Transport
}

package path

// Resolver picks the scenario for a state by scanning a fixed list in
// priority order.
type Resolver struct {
	scenarios []Scenario
}

// NewResolver returns a resolver over the default scenario list.
func NewResolver() *Resolver {
	return &Resolver{scenarios: DefaultScenarios()}
}

// Resolve returns the first scenario whose predicate holds, or false
// when none applies.
func (r *Resolver) Resolve(state ScenarioState) (*Scenario, bool) {
	for i := range r.scenarios {
		if r.scenarios[i].Applies(state) {
			return &r.scenarios[i], true
		}
	}
	return nil, false
}

package check

// All returns a fresh instance of every completed check, in the order they
// run each tick.
func All() []Check {
	return []Check{
		NewSpeed(),
		NewFly(),
		NewNoFall(),
		NewPhase(),
	}
}

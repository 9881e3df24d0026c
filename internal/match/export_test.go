package match

// Sweep runs one sweep pass synchronously, so expiry tests do not depend on
// ticker timing.
func (e *Engine) Sweep() {
	e.sweep()
}

package mcq

// tickMsg is one second of countdown for the session it names. Ticks for
// another session or generation are dropped without re-arming.
type tickMsg struct {
	SessionID  string
	Generation uint64
}

package matcher

// MatchMonitor provides hooks to observe a FindRelated pass.
// Start is not called when there are no opinions to score.
type MatchMonitor interface {
	Start(topic string, candidates int)
	Scored(index int, score float64, kept bool)
	Finish(matches []Match)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)            {}
func (n *noopMonitor) Scored(_ int, _ float64, _ bool) {}
func (n *noopMonitor) Finish(_ []Match)                 {}

package analysis

import (
	"time"

	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/matcher"
)

// Remote operation names passed to Monitor.RemoteCall.
const (
	OpMatch     = "match"
	OpClassify  = "classify"
	OpSummarize = "summarize"
)

// Monitor provides hooks to observe an analysis run.
// Finish receives a nil report when the run failed.
type Monitor interface {
	Start(topic string)
	Matched(candidates int, ranked []matcher.Match)
	Classified(rank int, category core.Category)
	Summarized(conclusion string)
	RemoteCall(op string, elapsed time.Duration, err error)
	Finish(report *Report, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                {}
func (n *noopMonitor) Matched(_ int, _ []matcher.Match)              {}
func (n *noopMonitor) Classified(_ int, _ core.Category)             {}
func (n *noopMonitor) Summarized(_ string)                           {}
func (n *noopMonitor) RemoteCall(_ string, _ time.Duration, _ error) {}
func (n *noopMonitor) Finish(_ *Report, _ error)                     {}

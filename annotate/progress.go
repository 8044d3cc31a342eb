package annotate

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/digitalpulse/core"
)

// classifyProgress prints a running line of how many related opinions have
// been classified, broken down by category.
type classifyProgress struct {
	mu       sync.Mutex
	w        io.Writer
	related  int
	done     int
	every    int
	printed  int
	counts   map[core.Category]int
	began    time.Time
	finished bool
}

// newClassifyProgress starts reporting on a run over related opinions,
// printing after every `every` classifications.
func newClassifyProgress(w io.Writer, related, every int) *classifyProgress {
	if every <= 0 {
		every = 1
	}
	return &classifyProgress{
		w:       w,
		related: related,
		every:   every,
		counts:  make(map[core.Category]int),
		began:   time.Now(),
	}
}

// classified records one stored classification.
func (p *classifyProgress) classified(category core.Category) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}

	p.done++
	p.counts[category]++
	if p.done-p.printed >= p.every {
		p.print()
		p.printed = p.done
	}
}

// finish prints the final line, short of the related count if the run failed.
// Later calls are no-ops.
func (p *classifyProgress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	p.finished = true
	p.print()
	fmt.Fprintln(p.w)
}

func (p *classifyProgress) elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.began)
}

// print must be called with mu held.
func (p *classifyProgress) print() {
	var b strings.Builder
	fmt.Fprintf(&b, "\rClassified %d/%d related opinions", p.done, p.related)
	if p.related > 0 {
		fmt.Fprintf(&b, " (%.0f%%)", float64(p.done)/float64(p.related)*100)
	}
	for _, c := range core.Categories() {
		if n := p.counts[c]; n > 0 {
			fmt.Fprintf(&b, " %s:%d", c, n)
		}
	}
	if secs := time.Since(p.began).Seconds(); secs > 0 && p.done > 0 {
		fmt.Fprintf(&b, " %.2f/s", float64(p.done)/secs)
	}
	io.WriteString(p.w, b.String())
}

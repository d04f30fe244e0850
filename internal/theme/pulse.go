package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rsheridan/finale/internal/countdown"
	"github.com/rsheridan/finale/internal/stage"
)

const pulseBarWidth = 40

var pulseStyles = struct {
	Filled lipgloss.Style
	Empty  lipgloss.Style
	Time   lipgloss.Style
	Done   lipgloss.Style
}{
	Filled: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	Time:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
	Done:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
}

// Pulse renders an intensity bar that fills as the countdown advances
// through its stages.
type Pulse struct {
	mu        sync.Mutex
	surface   *Surface
	ctx       Context
	destroyed bool
	finished  bool
	message   string
}

// NewPulse creates the pulse renderer.
func NewPulse() *Pulse {
	return &Pulse{}
}

// Mount implements Renderer.
func (p *Pulse) Mount(surface *Surface, ctx Context) error {
	p.mu.Lock()
	p.surface = surface
	p.ctx = ctx
	p.mu.Unlock()
	p.draw()
	return nil
}

// UpdateContainer implements Renderer.
func (p *Pulse) UpdateContainer(surface *Surface) {
	p.mu.Lock()
	p.surface = surface
	p.mu.Unlock()
	p.draw()
}

// UpdateTime implements Renderer.
func (p *Pulse) UpdateTime(r countdown.Remaining) {
	p.mu.Lock()
	p.ctx.Remaining = r
	p.mu.Unlock()
	p.draw()
}

// OnCounting implements Renderer.
func (p *Pulse) OnCounting() {
	p.mu.Lock()
	p.finished = false
	p.mu.Unlock()
	p.draw()
}

// OnCelebrating implements Renderer.
func (p *Pulse) OnCelebrating(opts CelebrateOptions) {
	p.finish(opts)
}

// OnCelebrated implements Renderer.
func (p *Pulse) OnCelebrated(opts CelebrateOptions) {
	p.finish(opts)
}

func (p *Pulse) finish(opts CelebrateOptions) {
	p.mu.Lock()
	p.finished = true
	if opts.Message != "" {
		p.message = opts.Message
	}
	p.mu.Unlock()
	p.draw()
}

// OnAnimationStateChange implements Renderer.
func (p *Pulse) OnAnimationStateChange(ctx Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()
	p.draw()
}

// Destroy implements Renderer.
func (p *Pulse) Destroy() {
	p.mu.Lock()
	p.destroyed = true
	p.surface = nil
	p.mu.Unlock()
}

func (p *Pulse) draw() {
	p.mu.Lock()
	if p.destroyed || p.surface == nil {
		p.mu.Unlock()
		return
	}
	surface := p.surface
	ctx := p.ctx
	finished := p.finished
	message := p.message
	p.mu.Unlock()

	if message == "" {
		message = ctx.Message
	}

	if finished {
		bar := pulseStyles.Filled.Render(strings.Repeat("█", pulseBarWidth))
		surface.SetFrame(bar + "\n" + pulseStyles.Done.Render(message))
		return
	}

	// Bar fill tracks the stage's coverage value, eased by progress within
	// the stage.
	coverage := ctx.Stage.Stage.Values[stage.ValueCoverage]
	fill := coverage * ctx.Stage.Progress
	filled := int(fill * pulseBarWidth)
	if filled > pulseBarWidth {
		filled = pulseBarWidth
	}

	r := ctx.Remaining
	var b strings.Builder
	b.WriteString(pulseStyles.Filled.Render(strings.Repeat("█", filled)))
	b.WriteString(pulseStyles.Empty.Render(strings.Repeat("░", pulseBarWidth-filled)))
	b.WriteString("\n")
	b.WriteString(pulseStyles.Time.Render(
		fmt.Sprintf("%dd %02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)))
	b.WriteString("  ")
	b.WriteString(pulseStyles.Empty.Render(ctx.Stage.Stage.Name))
	surface.SetFrame(b.String())
}

package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rsheridan/finale/internal/countdown"
)

var digitsStyles = struct {
	Clock    lipgloss.Style
	Days     lipgloss.Style
	Done     lipgloss.Style
	StageTag lipgloss.Style
}{
	Clock: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true),

	Days: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Done: lipgloss.NewStyle().
		Foreground(lipgloss.Color("82")).
		Bold(true),

	StageTag: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),
}

// Digits renders the remaining time as a large block-font clock.
type Digits struct {
	mu        sync.Mutex
	surface   *Surface
	ctx       Context
	destroyed bool
	finished  bool
	message   string
}

// NewDigits creates the digits renderer.
func NewDigits() *Digits {
	return &Digits{}
}

// Mount implements Renderer.
func (d *Digits) Mount(surface *Surface, ctx Context) error {
	d.mu.Lock()
	d.surface = surface
	d.ctx = ctx
	d.mu.Unlock()
	d.draw()
	return nil
}

// UpdateContainer implements Renderer.
func (d *Digits) UpdateContainer(surface *Surface) {
	d.mu.Lock()
	d.surface = surface
	d.mu.Unlock()
	d.draw()
}

// UpdateTime implements Renderer.
func (d *Digits) UpdateTime(r countdown.Remaining) {
	d.mu.Lock()
	d.ctx.Remaining = r
	d.mu.Unlock()
	d.draw()
}

// OnCounting implements Renderer.
func (d *Digits) OnCounting() {
	d.mu.Lock()
	d.finished = false
	d.mu.Unlock()
	d.draw()
}

// OnCelebrating implements Renderer.
func (d *Digits) OnCelebrating(opts CelebrateOptions) {
	d.finish(opts)
}

// OnCelebrated implements Renderer.
func (d *Digits) OnCelebrated(opts CelebrateOptions) {
	d.finish(opts)
}

func (d *Digits) finish(opts CelebrateOptions) {
	d.mu.Lock()
	d.finished = true
	if opts.Message != "" {
		d.message = opts.Message
	}
	d.mu.Unlock()
	d.draw()
}

// OnAnimationStateChange implements Renderer.
func (d *Digits) OnAnimationStateChange(ctx Context) {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
	d.draw()
}

// Destroy implements Renderer.
func (d *Digits) Destroy() {
	d.mu.Lock()
	d.destroyed = true
	d.surface = nil
	d.mu.Unlock()
}

func (d *Digits) draw() {
	d.mu.Lock()
	if d.destroyed || d.surface == nil {
		d.mu.Unlock()
		return
	}
	surface := d.surface
	ctx := d.ctx
	finished := d.finished
	message := d.message
	d.mu.Unlock()

	if message == "" {
		message = ctx.Message
	}

	var b strings.Builder
	if finished {
		b.WriteString(digitsStyles.Done.Render(renderBlockText("00:00:00")))
		b.WriteString("\n\n")
		b.WriteString(digitsStyles.Done.Render(message))
	} else {
		r := ctx.Remaining
		clock := fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
		if r.Days > 0 {
			b.WriteString(digitsStyles.Days.Render(fmt.Sprintf("%d days", r.Days)))
			b.WriteString("\n")
		}
		b.WriteString(digitsStyles.Clock.Render(renderBlockText(clock)))
		b.WriteString("\n")
		b.WriteString(digitsStyles.StageTag.Render(ctx.Stage.Stage.Name))
	}
	surface.SetFrame(b.String())
}

package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rsheridan/finale/internal/countdown"
	"github.com/rsheridan/finale/internal/stage"
)

const (
	fireworksFieldWidth  = 40
	fireworksFieldHeight = 6
)

var fireworksStyles = struct {
	Spark lipgloss.Style
	Burst lipgloss.Style
	Time  lipgloss.Style
	Done  lipgloss.Style
}{
	Spark: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	Burst: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	Time:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	Done:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
}

var burstFrame = strings.Join([]string{
	`      \  :  /      `,
	`   '   \ : /   '   `,
	`  --== * BOOM * ==--`,
	`   .   / : \   .   `,
	`      /  :  \      `,
}, "\n")

// Fireworks renders a spark field whose density follows the stage turnover
// ratio, and a burst when the target is reached.
type Fireworks struct {
	mu          sync.Mutex
	surface     *Surface
	ctx         Context
	destroyed   bool
	celebrating bool
	celebrated  bool
	message     string
	seed        uint64
}

// NewFireworks creates the fireworks renderer.
func NewFireworks() *Fireworks {
	return &Fireworks{seed: 0x9E3779B9}
}

// Mount implements Renderer.
func (f *Fireworks) Mount(surface *Surface, ctx Context) error {
	f.mu.Lock()
	f.surface = surface
	f.ctx = ctx
	f.mu.Unlock()
	f.draw()
	return nil
}

// UpdateContainer implements Renderer.
func (f *Fireworks) UpdateContainer(surface *Surface) {
	f.mu.Lock()
	f.surface = surface
	f.mu.Unlock()
	f.draw()
}

// UpdateTime implements Renderer.
func (f *Fireworks) UpdateTime(r countdown.Remaining) {
	f.mu.Lock()
	f.ctx.Remaining = r
	f.seed = f.seed*6364136223846793005 + 1442695040888963407
	f.mu.Unlock()
	f.draw()
}

// OnCounting implements Renderer.
func (f *Fireworks) OnCounting() {
	f.mu.Lock()
	f.celebrating = false
	f.celebrated = false
	f.mu.Unlock()
	f.draw()
}

// OnCelebrating implements Renderer.
func (f *Fireworks) OnCelebrating(opts CelebrateOptions) {
	f.mu.Lock()
	f.celebrating = true
	f.celebrated = false
	if opts.Message != "" {
		f.message = opts.Message
	}
	f.mu.Unlock()
	f.draw()
}

// OnCelebrated implements Renderer.
func (f *Fireworks) OnCelebrated(opts CelebrateOptions) {
	f.mu.Lock()
	f.celebrating = false
	f.celebrated = true
	if opts.Message != "" {
		f.message = opts.Message
	}
	f.mu.Unlock()
	f.draw()
}

// OnAnimationStateChange implements Renderer.
func (f *Fireworks) OnAnimationStateChange(ctx Context) {
	f.mu.Lock()
	f.ctx = ctx
	f.mu.Unlock()
	f.draw()
}

// Destroy implements Renderer.
func (f *Fireworks) Destroy() {
	f.mu.Lock()
	f.destroyed = true
	f.surface = nil
	f.mu.Unlock()
}

func (f *Fireworks) draw() {
	f.mu.Lock()
	if f.destroyed || f.surface == nil {
		f.mu.Unlock()
		return
	}
	surface := f.surface
	ctx := f.ctx
	celebrating := f.celebrating
	celebrated := f.celebrated
	message := f.message
	seed := f.seed
	f.mu.Unlock()

	if message == "" {
		message = ctx.Message
	}

	switch {
	case celebrating:
		surface.SetFrame(fireworksStyles.Burst.Render(burstFrame) + "\n" +
			fireworksStyles.Done.Render(message))
	case celebrated:
		surface.SetFrame(fireworksStyles.Done.Render("* * *  " + message + "  * * *"))
	default:
		r := ctx.Remaining
		density := ctx.Stage.Stage.Values[stage.ValueTurnover]
		field := sparkField(seed, density)
		clock := fmt.Sprintf("%dd %02dh %02dm %02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
		surface.SetFrame(fireworksStyles.Spark.Render(field) + "\n" +
			fireworksStyles.Time.Render(clock))
	}
}

// sparkField draws a pseudo-random field of sparks; density is the fraction
// of cells lit. The seed advances every tick so the field shimmers.
func sparkField(seed uint64, density float64) string {
	threshold := uint64(density * 256)
	var b strings.Builder
	s := seed
	for row := 0; row < fireworksFieldHeight; row++ {
		for col := 0; col < fireworksFieldWidth; col++ {
			s = s*6364136223846793005 + 1442695040888963407
			if (s>>33)%256 < threshold {
				b.WriteByte('*')
			} else {
				b.WriteByte(' ')
			}
		}
		if row < fireworksFieldHeight-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

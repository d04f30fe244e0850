package theme

import (
	"testing"
	"time"

	"github.com/rsheridan/finale/internal/countdown"
	"github.com/rsheridan/finale/internal/stage"
)

func TestRegistry(t *testing.T) {
	t.Run("first registered theme becomes default", func(t *testing.T) {
		r := NewRegistry()
		r.Register("alpha", func() Renderer { return NewDigits() })
		r.Register("beta", func() Renderer { return NewPulse() })
		if r.Default() != "alpha" {
			t.Errorf("expected default alpha, got %q", r.Default())
		}
	})

	t.Run("validate coerces unknown ids", func(t *testing.T) {
		r := BuiltIn()
		if got := r.ValidateThemeID("digits"); got != "digits" {
			t.Errorf("valid id rewritten to %q", got)
		}
		if got := r.ValidateThemeID("nonexistent"); got != "digits" {
			t.Errorf("expected fallback to default, got %q", got)
		}
	})

	t.Run("new rejects unknown ids", func(t *testing.T) {
		r := BuiltIn()
		if _, err := r.New("nonexistent"); err == nil {
			t.Error("expected error for unknown theme")
		}
	})

	t.Run("next wraps in registration order", func(t *testing.T) {
		r := BuiltIn()
		if got := r.Next("digits"); got != "pulse" {
			t.Errorf("expected pulse after digits, got %q", got)
		}
		if got := r.Next("fireworks"); got != "digits" {
			t.Errorf("expected wrap to digits, got %q", got)
		}
		if got := r.Next("nonexistent"); got != "digits" {
			t.Errorf("expected default for unknown id, got %q", got)
		}
	})

	t.Run("list preserves registration order", func(t *testing.T) {
		r := BuiltIn()
		got := r.List()
		want := []string{"digits", "pulse", "fireworks"}
		if len(got) != len(want) {
			t.Fatalf("expected %d themes, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func testContext() Context {
	table := stage.DefaultTable()
	remaining := countdown.FromDuration(90 * time.Second)
	return Context{
		Width:     80,
		Height:    24,
		Remaining: remaining,
		Stage:     table.Resolve(remaining.Total, time.Hour),
		Message:   "Time's up!",
	}
}

func TestRendererContract(t *testing.T) {
	for _, id := range BuiltIn().List() {
		t.Run(id, func(t *testing.T) {
			r, err := BuiltIn().New(id)
			if err != nil {
				t.Fatalf("New(%q): %v", id, err)
			}

			surface := NewSurface()
			if err := r.Mount(surface, testContext()); err != nil {
				t.Fatalf("Mount: %v", err)
			}
			if surface.Frame() == "" {
				t.Error("mount should draw an initial frame")
			}

			before := surface.Frame()
			r.UpdateTime(countdown.FromDuration(5 * time.Second))
			if surface.Frame() == before {
				t.Error("UpdateTime should redraw the frame")
			}

			r.OnCelebrating(CelebrateOptions{Message: "done"})
			r.OnCelebrated(CelebrateOptions{Replay: true, Message: "done"})
			r.OnCounting()

			// Destroy mid-animation must be tolerated; later calls are no-ops.
			r.Destroy()
			frame := surface.Frame()
			r.UpdateTime(countdown.FromDuration(time.Second))
			if surface.Frame() != frame {
				t.Error("destroyed renderer must not touch its surface")
			}
		})
	}
}

func TestSurfaceAdoptContents(t *testing.T) {
	live := NewSurface()
	live.Attach()
	live.SetFrame("old frame")
	live.SetLabel("old label")
	live.SetFocus("switcher")

	off := NewSurface()
	off.SetFrame("new frame")
	off.SetLabel("new label")

	live.AdoptContents(off)

	if live.Frame() != "new frame" || live.Label() != "new label" {
		t.Errorf("contents not adopted: frame=%q label=%q", live.Frame(), live.Label())
	}
	if !live.Attached() {
		t.Error("adopting contents must not detach the live surface")
	}
	if live.Focus() != "switcher" {
		t.Error("focus is owned by the host, not the adopted contents")
	}
}

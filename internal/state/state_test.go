package state

import (
	"testing"
	"time"
)

func TestStoreSetters(t *testing.T) {
	t.Run("setter notifies on change", func(t *testing.T) {
		s := NewStore(AppState{SelectedTheme: "digits"})
		var gotOld, gotNew AppState
		calls := 0
		s.Subscribe(func(old, next AppState) {
			calls++
			gotOld, gotNew = old, next
		})

		s.SetTimezone("Asia/Tokyo")
		if calls != 1 {
			t.Fatalf("expected 1 notification, got %d", calls)
		}
		if gotOld.SelectedTimezone != "" || gotNew.SelectedTimezone != "Asia/Tokyo" {
			t.Errorf("unexpected diff: old=%q new=%q", gotOld.SelectedTimezone, gotNew.SelectedTimezone)
		}
	})

	t.Run("setter is silent when value is unchanged", func(t *testing.T) {
		s := NewStore(AppState{SelectedTimezone: "UTC"})
		calls := 0
		s.Subscribe(func(old, next AppState) { calls++ })

		s.SetTimezone("UTC")
		s.SetComplete(false)
		if calls != 0 {
			t.Errorf("expected no notifications for no-op updates, got %d", calls)
		}
	})

	t.Run("equal target instants do not notify", func(t *testing.T) {
		target := time.Now() // carries a monotonic reading
		s := NewStore(AppState{TargetDate: target})
		calls := 0
		s.Subscribe(func(old, next AppState) { calls++ })

		s.SetTargetDate(target.Round(0)) // same instant, monotonic stripped
		s.SetTargetDate(target.UTC())    // same instant, different location
		if calls != 0 {
			t.Errorf("equal instants should not notify, got %d", calls)
		}

		s.SetTargetDate(target.Add(time.Second))
		if calls != 1 {
			t.Errorf("a moved target should notify once, got %d", calls)
		}
	})

	t.Run("invalid theme coerced to default", func(t *testing.T) {
		validator := func(id string) string {
			if id == "digits" || id == "pulse" {
				return id
			}
			return "digits"
		}
		s := NewStore(AppState{SelectedTheme: "bogus"}, WithThemeValidator(validator))
		if got := s.GetState().SelectedTheme; got != "digits" {
			t.Errorf("initial theme not coerced: got %q", got)
		}

		s.SetTheme("pulse")
		if got := s.GetState().SelectedTheme; got != "pulse" {
			t.Errorf("valid theme rejected: got %q", got)
		}

		calls := 0
		s.Subscribe(func(old, next AppState) { calls++ })
		s.SetTheme("also-bogus")
		if got := s.GetState().SelectedTheme; got != "digits" {
			t.Errorf("invalid theme not coerced: got %q", got)
		}
		if calls != 1 {
			t.Errorf("coercion to a different value should notify once, got %d", calls)
		}
	})

	t.Run("snapshot replaced wholesale", func(t *testing.T) {
		s := NewStore(AppState{})
		target := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
		s.SetTargetDate(target)
		s.SetMode(ModeAbsolute)
		s.SetCompletionMessage("Happy New Year!")
		s.SetDurationSeconds(90)

		got := s.GetState()
		if !got.TargetDate.Equal(target) || got.CountdownMode != ModeAbsolute {
			t.Errorf("unexpected snapshot: %+v", got)
		}
		if got.CompletionMessage != "Happy New Year!" || got.DurationSeconds != 90 {
			t.Errorf("unexpected snapshot: %+v", got)
		}
	})
}

func TestStoreSubscribers(t *testing.T) {
	t.Run("delivery in registration order", func(t *testing.T) {
		s := NewStore(AppState{})
		var order []int
		s.Subscribe(func(old, next AppState) { order = append(order, 1) })
		s.Subscribe(func(old, next AppState) { order = append(order, 2) })
		s.Subscribe(func(old, next AppState) { order = append(order, 3) })

		s.SetComplete(true)
		if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
			t.Errorf("expected delivery order 1,2,3, got %v", order)
		}
	})

	t.Run("panicking subscriber does not block the rest", func(t *testing.T) {
		s := NewStore(AppState{})
		var order []int
		s.Subscribe(func(old, next AppState) { order = append(order, 1) })
		s.Subscribe(func(old, next AppState) { panic("bad observer") })
		s.Subscribe(func(old, next AppState) { order = append(order, 3) })

		s.SetComplete(true)
		if len(order) != 2 || order[1] != 3 {
			t.Errorf("expected surviving subscribers 1 and 3, got %v", order)
		}
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		s := NewStore(AppState{})
		calls := 0
		unsub := s.Subscribe(func(old, next AppState) { calls++ })
		s.SetComplete(true)
		unsub()
		s.SetComplete(false)

		if calls != 1 {
			t.Errorf("expected 1 call before unsubscribe, got %d", calls)
		}
	})

	t.Run("destroy clears all listeners", func(t *testing.T) {
		s := NewStore(AppState{})
		calls := 0
		s.Subscribe(func(old, next AppState) { calls++ })
		s.Destroy()
		s.SetComplete(true)

		if calls != 0 {
			t.Errorf("expected no delivery after destroy, got %d", calls)
		}
		if unsub := s.Subscribe(func(old, next AppState) { calls++ }); unsub == nil {
			t.Error("Subscribe after destroy should return a no-op handle, not nil")
		}
	})
}

func TestParseMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"timer", ModeTimer, true},
		{"absolute", ModeAbsolute, true},
		{"wall-clock", ModeWallClock, true},
		{"", ModeWallClock, false},
		{"stopwatch", ModeWallClock, false},
	} {
		got, ok := ParseMode(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

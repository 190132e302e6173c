package state

import (
	"testing"
	"time"
)

func TestNewConversationContextKey(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewConversationContext(" t1 ", " +5548999990000 ", now, time.Hour)

	if c.Key() != "t1:+5548999990000" {
		t.Fatalf("key = %q", c.Key())
	}
	if !c.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires at = %s", c.ExpiresAt)
	}
}

func TestValidateRequiresKey(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	c := NewConversationContext("", "+5548999990000", now, time.Hour)
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for empty tenant")
	}

	c = NewConversationContext("t1", "", now, time.Hour)
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for empty phone")
	}
}

func TestAppendTurnEvictsOldest(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	c := NewConversationContext("t1", "+55", now, time.Hour)
	c.SetWindows(3, 0)

	c.AppendTurn("user", "one", now)
	c.AppendTurn("assistant", "two", now)
	c.AppendTurn("user", "three", now)
	c.AppendTurn("assistant", "four", now)

	if len(c.Turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(c.Turns))
	}
	if c.Turns[0].Text != "two" {
		t.Fatalf("oldest turn = %q, want %q", c.Turns[0].Text, "two")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestAppendCallEvictsOldest(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	c := NewConversationContext("t1", "+55", now, time.Hour)
	c.SetWindows(0, 2)

	c.AppendCall(RecentCall{Name: "a", ArgumentHash: "h1", ExecutedAt: now})
	c.AppendCall(RecentCall{Name: "b", ArgumentHash: "h2", ExecutedAt: now})
	c.AppendCall(RecentCall{Name: "c", ArgumentHash: "h3", ExecutedAt: now})

	if len(c.RecentCalls) != 2 {
		t.Fatalf("recent calls = %d, want 2", len(c.RecentCalls))
	}
	if c.RecentCalls[0].Name != "b" {
		t.Fatalf("oldest call = %q, want %q", c.RecentCalls[0].Name, "b")
	}
}

func TestRecentWindow(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	c := NewConversationContext("t1", "+55", now, time.Hour)
	for _, name := range []string{"a", "b", "c", "d"} {
		c.AppendCall(RecentCall{Name: name, ArgumentHash: "h", ExecutedAt: now})
	}

	win := c.RecentWindow(2)
	if len(win) != 2 || win[0].Name != "c" || win[1].Name != "d" {
		t.Fatalf("unexpected window: %#v", win)
	}

	all := c.RecentWindow(10)
	if len(all) != 4 {
		t.Fatalf("window larger than history should return all, got %d", len(all))
	}
}

func TestExpiredAndTouch(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewConversationContext("t1", "+55", now, time.Hour)

	if c.Expired(now.Add(30 * time.Minute)) {
		t.Fatal("context expired too early")
	}
	if !c.Expired(now.Add(2 * time.Hour)) {
		t.Fatal("context did not expire")
	}

	c.Touch(now.Add(2*time.Hour), time.Hour)
	if c.Expired(now.Add(2*time.Hour + 30*time.Minute)) {
		t.Fatal("touch did not extend expiry")
	}
}

func TestLastUserTurn(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	c := NewConversationContext("t1", "+55", now, time.Hour)

	if _, ok := c.LastUserTurn(); ok {
		t.Fatal("empty transcript should have no user turn")
	}

	c.AppendTurn("user", "primeira", now)
	c.AppendTurn("assistant", "resposta", now)
	c.AppendTurn("user", "segunda", now)
	c.AppendTurn("assistant", "resposta dois", now)

	text, ok := c.LastUserTurn()
	if !ok || text != "segunda" {
		t.Fatalf("last user turn = %q, %v", text, ok)
	}
}

package agents

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/va6996/ainews/core"
)

func TestSessionStore_AppendAndHistory(t *testing.T) {
	store := NewSessionStore(4, 0, 0)

	assert.Empty(t, store.History("a"))

	store.Append("a", core.Turn{Role: core.RoleUser, Text: "hi"}, core.Turn{Role: core.RoleAssistant, Text: "hello"})
	store.Append("b", core.Turn{Role: core.RoleUser, Text: "other"})

	assert.Equal(t, []core.Turn{
		{Role: core.RoleUser, Text: "hi"},
		{Role: core.RoleAssistant, Text: "hello"},
	}, store.History("a"))
	assert.Equal(t, 2, store.Len())

	history := store.History("a")
	history[0].Text = "mutated"
	assert.Equal(t, "hi", store.History("a")[0].Text)
}

func TestSessionStore_Window(t *testing.T) {
	store := NewSessionStore(3, 0, 0)
	for i := 0; i < 5; i++ {
		store.Append("s", core.Turn{Role: core.RoleUser, Text: fmt.Sprint(i)})
	}

	history := store.History("s")
	assert.Len(t, history, 3)
	assert.Equal(t, "2", history[0].Text)
	assert.Equal(t, "4", history[2].Text)
}

func TestSessionStore_Reset(t *testing.T) {
	store := NewSessionStore(0, 0, 0)
	store.Append("s", core.Turn{Role: core.RoleUser, Text: "x"})
	store.Reset("s")
	assert.Empty(t, store.History("s"))
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_Concurrent(t *testing.T) {
	store := NewSessionStore(1000, 0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.Append("shared", core.Turn{Role: core.RoleUser, Text: "x"})
				_ = store.History("shared")
			}
		}()
	}
	wg.Wait()
	assert.Len(t, store.History("shared"), 200)
}

func TestSessionStore_IdleExpiry(t *testing.T) {
	store := NewSessionStore(0, 0, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Append("old", core.Turn{Role: core.RoleUser, Text: "x"})
	now = now.Add(30 * time.Second)
	store.Append("fresh", core.Turn{Role: core.RoleUser, Text: "y"})

	now = now.Add(45 * time.Second)
	assert.Empty(t, store.History("old"))
	assert.Len(t, store.History("fresh"), 1)

	// the next append sweeps expired sessions
	store.Append("fresh", core.Turn{Role: core.RoleAssistant, Text: "z"})
	assert.Equal(t, 1, store.Len())
	assert.Len(t, store.History("fresh"), 2)
}

func TestSessionStore_ExpiredSessionStartsOver(t *testing.T) {
	store := NewSessionStore(0, 0, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Append("s", core.Turn{Role: core.RoleUser, Text: "stale"})
	now = now.Add(2 * time.Minute)
	store.Append("s", core.Turn{Role: core.RoleUser, Text: "new"})

	assert.Equal(t, []core.Turn{{Role: core.RoleUser, Text: "new"}}, store.History("s"))
}

func TestSessionStore_MaxSessionsEvictsLeastRecentlyUsed(t *testing.T) {
	store := NewSessionStore(0, 2, time.Hour)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	store.Append("a", core.Turn{Role: core.RoleUser, Text: "1"})
	store.Append("b", core.Turn{Role: core.RoleUser, Text: "2"})
	store.Append("a", core.Turn{Role: core.RoleUser, Text: "3"})
	store.Append("c", core.Turn{Role: core.RoleUser, Text: "4"})

	assert.Equal(t, 2, store.Len())
	assert.Empty(t, store.History("b"))
	assert.Len(t, store.History("a"), 2)
	assert.Len(t, store.History("c"), 1)
}

func TestSessionStore_ManyAnonymousSessionsStayBounded(t *testing.T) {
	store := NewSessionStore(0, 50, 0)
	for i := 0; i < 500; i++ {
		store.Append(fmt.Sprintf("s-%d", i), core.Turn{Role: core.RoleUser, Text: "hi"})
	}
	assert.Equal(t, 50, store.Len())
	assert.Len(t, store.History("s-499"), 1)
}

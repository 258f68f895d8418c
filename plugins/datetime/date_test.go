package datetime

import (
	"context"
	"testing"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/ainews/tools"
)

func fixedTool() *DateTool {
	return &DateTool{Now: func() time.Time {
		// Thursday
		return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func TestDateTool_Execute(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantDate  string
		wantDay   string
		expectErr bool
	}{
		{name: "Today", code: "new Date(now)", wantDate: "2026-01-01", wantDay: "Thursday"},
		{name: "Yesterday", code: "new Date(now - 86400000)", wantDate: "2025-12-31", wantDay: "Wednesday"},
		{name: "ISO String", code: "'2026-01-02T00:00:00Z'", wantDate: "2026-01-02", wantDay: "Friday"},
		{name: "Date Only String", code: "'2026-01-05'", wantDate: "2026-01-05", wantDay: "Monday"},
		{
			name:     "Last Monday",
			code:     "var d = new Date(now); d.setUTCDate(d.getUTCDate() - ((d.getUTCDay() + 6) % 7 || 7)); d",
			wantDate: "2025-12-29",
			wantDay:  "Monday",
		},
		{name: "Number", code: "12345", expectErr: true},
		{name: "Undefined", code: "undefined", expectErr: true},
		{name: "Unparseable String", code: "'next week'", expectErr: true},
		{name: "Syntax Error", code: "new Date(", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := fixedTool().Execute(context.Background(), &DateInput{Expression: tt.code})
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, out.Date)
			assert.Equal(t, tt.wantDay, out.Weekday)
		})
	}
}

func TestDateTool_EmptyExpression(t *testing.T) {
	_, err := fixedTool().Execute(context.Background(), nil)
	assert.Error(t, err)

	_, err = fixedTool().Execute(context.Background(), &DateInput{})
	assert.Error(t, err)
}

func TestDateTool_InfiniteLoopInterrupted(t *testing.T) {
	start := time.Now()
	_, err := fixedTool().Execute(context.Background(), &DateInput{Expression: "while (true) {}"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "js execution interrupted")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDateTool_Registered(t *testing.T) {
	registry := tools.NewRegistry()
	gk := genkit.Init(context.Background())

	dt := NewDateTool(gk, registry)
	dt.Now = fixedTool().Now

	assert.Contains(t, registry.Names(), "dateTool")

	out, err := registry.ExecuteTool(context.Background(), "dateTool", map[string]interface{}{"expression": "new Date(now)"})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", out.(*DateOutput).Date)
}

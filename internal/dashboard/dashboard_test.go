package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/store"
)

func TestCountdown(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		start     time.Time
		days      int
		hours     int
		available bool
	}{
		{"two days ahead", time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC), 2, 18, false},
		{"later today", time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC), 0, 5, true},
		{"yesterday", time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC), -1, -21, true},
		{"tomorrow early", time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC), 1, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CountdownTo(tt.start, now)
			assert.Equal(t, tt.days, c.Days)
			assert.Equal(t, tt.hours, c.Hours)
			assert.Equal(t, tt.available, c.Available)
			assert.Equal(t, tt.available, Available(tt.start, now))
		})
	}
}

func TestDaysUntilUsesLocalMidnight(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*3600)
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, riyadh)
	start := time.Date(2024, 3, 11, 1, 0, 0, 0, riyadh)
	assert.Equal(t, 1, DaysUntil(start, now))
	assert.Equal(t, 1, HoursUntil(start, now))

	// Same instants seen from UTC fall on one calendar day.
	assert.Equal(t, 0, DaysUntil(start, now.UTC()))
}

func TestCountdownString(t *testing.T) {
	assert.Equal(t, "2 jours et 18 heures", Countdown{Days: 2, Hours: 18}.String())
	assert.Equal(t, "1 jour et 1 heure", Countdown{Days: 1, Hours: 1}.String())
	assert.Equal(t, "0 jour et 0 heure", Countdown{}.String())
}

func TestSectionsScan(t *testing.T) {
	var s Sections
	require.NoError(t, s.Scan([]byte(`[{"title":"Nuit","content":"Observer Vénus","type":"sky"}]`)))
	require.Len(t, s, 1)
	assert.Equal(t, "Observer Vénus", s[0].Content)

	require.NoError(t, s.Scan(nil))
	assert.Nil(t, s)
	assert.Error(t, s.Scan(42))
	assert.Error(t, s.Scan("{"))

	v, err := Sections(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	ds := store.NewMemoryStore()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, ds.Insert(ctx, store.TableWeekends,
		Weekend{Title: "Désert", Description: "Nuit étoilée", StartDate: base},
		Weekend{Title: "Océan", Description: "Marées", StartDate: base.AddDate(0, 1, 0),
			Sections: Sections{{Title: "Marée haute", Content: "Pleine lune", Type: "activity"}}},
	))

	svc := NewService(ds)
	_, err := svc.List(ctx, nil)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)

	got, err := svc.List(ctx, &auth.User{ID: "u-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Océan", got[0].Title)
	require.Len(t, got[0].Sections, 1)
	assert.Equal(t, "Pleine lune", got[0].Sections[0].Content)
	assert.True(t, got[1].StartDate.Equal(base))
}

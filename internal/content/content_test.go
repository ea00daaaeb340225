package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/store"
)

func TestCategoriesAndFilter(t *testing.T) {
	articles := []Article{
		{Title: "a", Category: "Astronomie"},
		{Title: "b", Category: "Coran"},
		{Title: "c", Category: "Astronomie"},
		{Title: "d", Category: "Histoire"},
	}
	assert.Equal(t, []string{"all", "Astronomie", "Coran", "Histoire"}, Categories(articles))
	assert.Equal(t, []string{"all"}, Categories(nil))

	assert.Len(t, Filter(articles, AllCategories), 4)
	assert.Len(t, Filter(articles, ""), 4)
	got := Filter(articles, "Astronomie")
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[1].Title)
	assert.Empty(t, Filter(articles, "Inconnu"))
}

func TestArticleSummary(t *testing.T) {
	ex := "Court résumé"
	assert.Equal(t, ex, Article{Excerpt: &ex, Content: "long"}.Summary(5))
	assert.Equal(t, "Lune", Article{Content: "Lune"}.Summary(10))
	assert.Equal(t, "Éclip…", Article{Content: "Éclipse totale"}.Summary(6))
}

func TestLibraryPublished(t *testing.T) {
	ctx := context.Background()
	ds := store.NewMemoryStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ds.Insert(ctx, store.TableArticles,
		Article{Title: "old", Slug: "old", Category: "A", IsPublished: true, CreatedAt: base},
		Article{Title: "draft", Slug: "draft", Category: "A", IsPublished: false, CreatedAt: base.Add(48 * time.Hour)},
		Article{Title: "new", Slug: "new", Category: "B", IsPublished: true, CreatedAt: base.Add(24 * time.Hour), Tags: store.Strings{"lune"}},
	))

	got, err := NewLibrary(ds).Published(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Title)
	assert.Equal(t, "old", got[1].Title)
	assert.Equal(t, store.Strings{"lune"}, got[0].Tags)
}

func TestNewEntry(t *testing.T) {
	e, err := NewEntry("  Croissant  ", "Vu ce soir", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Croissant", e.Title)
	assert.Equal(t, Reflection, e.ObservationType)
	assert.Nil(t, e.VerseReference)

	e, err = NewEntry("Nuit", "Étoiles", " Al-Baqarah 2:164 ", Celestial)
	require.NoError(t, err)
	assert.Equal(t, "Al-Baqarah 2:164", e.Verse())

	_, err = NewEntry(" ", "x", "", "")
	assert.ErrorIs(t, err, ErrTitleRequired)
	_, err = NewEntry("x", "", "", "")
	assert.ErrorIs(t, err, ErrContentRequired)
	_, err = NewEntry("x", "y", "", "dream")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestObservationTypeLabels(t *testing.T) {
	for _, o := range ObservationTypes {
		assert.True(t, o.Valid())
		assert.NotEqual(t, string(o), o.Label(), o)
	}
	assert.False(t, ObservationType("x").Valid())
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	ds := store.NewMemoryStore()
	j := NewJournal(ds)

	e, err := NewEntry("Hilal", "Premier croissant", "", Gratitude)
	require.NoError(t, err)

	assert.ErrorIs(t, j.Add(ctx, nil, e), auth.ErrNotAuthenticated)
	_, err = j.List(ctx, &auth.User{})
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)

	noor := &auth.User{ID: "u-1"}
	other := &auth.User{ID: "u-2"}
	e.CreatedAt = time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	require.NoError(t, j.Add(ctx, noor, e))
	e.Title = "Pleine lune"
	e.CreatedAt = e.CreatedAt.Add(14 * 24 * time.Hour)
	require.NoError(t, j.Add(ctx, noor, e))
	require.NoError(t, j.Add(ctx, other, e))

	got, err := j.List(ctx, noor)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pleine lune", got[0].Title)
	assert.Equal(t, "u-1", got[1].UserID)
	assert.Equal(t, Gratitude, got[1].ObservationType)
}

func TestCarousel(t *testing.T) {
	require.Len(t, Messages, 10)

	var c Carousel
	assert.Equal(t, "Français", c.Current().Lang)
	for i := 0; i < len(Messages); i++ {
		c.Advance()
	}
	assert.Equal(t, 0, c.Index(), "wraps after a full cycle")

	assert.Equal(t, Messages[0], MessageAt(3*time.Second))
	assert.Equal(t, Messages[1], MessageAt(4*time.Second))
	assert.Equal(t, Messages[2], MessageAt(9*time.Second))
	assert.Equal(t, Messages[0], MessageAt(-time.Second))
}

func TestSitesFromDakar(t *testing.T) {
	require.Len(t, Sites, 12)

	views, err := SitesFrom(astro.Dakar)
	require.NoError(t, err)
	require.Len(t, views, len(Sites))

	mecca := views[0]
	assert.Equal(t, "La Mecque", mecca.Name)
	assert.Equal(t, astro.Bearing(74), mecca.Bearing)
	assert.Equal(t, "ENE", mecca.Cardinal)

	byName := map[string]SiteView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	assert.InDelta(t, 1562, byName["Tombouctou"].DistanceKm, 5)
	assert.Equal(t, astro.Bearing(80), byName["Tombouctou"].Bearing)
	assert.Equal(t, astro.Bearing(28), byName["Université Al-Qarawiyyin (Fès)"].Bearing)

	nearest := ByDistance(views)
	assert.Equal(t, "Grande Mosquée de Djenné", nearest[0].Name)
	assert.Equal(t, "Tombouctou", nearest[1].Name)
	assert.Equal(t, "La Mecque", views[0].Name, "ByDistance does not reorder its input")
}

func TestSitesFromSelf(t *testing.T) {
	views, err := SitesFrom(astro.Mecca)
	require.NoError(t, err)
	assert.Zero(t, views[0].DistanceKm)
	assert.Equal(t, astro.Bearing(0), views[0].Bearing)

	_, err = SitesFrom(astro.GeoCoordinate{Latitude: 100})
	assert.ErrorIs(t, err, astro.ErrInvalidInput)
}

func TestCategoryColor(t *testing.T) {
	assert.Equal(t, "#ec4899", CategoryColor(HolyPlace))
	assert.Equal(t, "#a855f7", CategoryColor(Observatory))
	assert.Equal(t, "#6366f1", CategoryColor(KnowledgeCentre))
	assert.Equal(t, "#f59e0b", CategoryColor(HistoricMosque))
	assert.Equal(t, "#8b5cf6", CategoryColor(Heritage))
	assert.Equal(t, []string{HolyPlace, Observatory, KnowledgeCentre, HistoricMosque, Heritage}, SiteCategories())
}

func TestResources(t *testing.T) {
	require.Len(t, Resources, 4)
	for _, g := range Resources {
		assert.Len(t, g.Links, 3, g.Category)
		for _, l := range g.Links {
			assert.Contains(t, l.URL, "https://")
		}
	}
}

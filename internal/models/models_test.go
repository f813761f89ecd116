package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

func strPtr(s string) *string { return &s }

func TestAwardXP_PrependsLogAndAddsXP(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	s := Star{Name: "A", XP: 5, Logs: []XPLog{{ID: "old", Date: now.Add(-time.Hour), Amount: 5}}}

	entry, err := s.AwardXP(3, "nice", now, seqIDs("l"))
	require.NoError(t, err)

	assert.Equal(t, 8, s.XP)
	require.Len(t, s.Logs, 2)
	assert.Equal(t, entry, s.Logs[0])
	assert.Equal(t, "old", s.Logs[1].ID)
	assert.Equal(t, now, s.LastActiveDate)
	assert.Equal(t, 1, s.Streak)
}

func TestAwardXP_RejectsNonPositive(t *testing.T) {
	s := Star{Name: "A"}
	_, err := s.AwardXP(0, "", time.Now(), seqIDs("l"))
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, s.Logs)
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		streak int
		last   time.Time
		want   int
	}{
		{"first event", 0, time.Time{}, 1},
		{"same day keeps", 4, now.Add(-2 * time.Hour), 4},
		{"same day from zero", 0, now.Add(-2 * time.Hour), 1},
		{"yesterday extends", 4, now.AddDate(0, 0, -1), 5},
		{"late yesterday extends", 4, time.Date(2024, 5, 9, 23, 59, 0, 0, time.UTC), 5},
		{"gap restarts", 30, now.AddDate(0, 0, -2), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.streak, tt.last, now))
		})
	}
}

func TestRemoveLog_FloorsXPAtZero(t *testing.T) {
	s := Star{Name: "A", XP: 10, Logs: []XPLog{{ID: "l1", Amount: 10}}}

	removed, ok := s.RemoveLog("l1")
	require.True(t, ok)
	assert.Equal(t, 10, removed.Amount)
	assert.Equal(t, 0, s.XP)
	assert.Empty(t, s.Logs)
}

func TestRemoveLog_SequenceNeverNegative(t *testing.T) {
	s := Star{Name: "A", XP: 7, Logs: []XPLog{
		{ID: "a", Amount: 5}, {ID: "b", Amount: 5}, {ID: "c", Amount: 100},
	}}
	for _, id := range []string{"b", "c", "a"} {
		_, ok := s.RemoveLog(id)
		require.True(t, ok)
		require.GreaterOrEqual(t, s.XP, 0)
	}
	assert.Equal(t, 0, s.XP)

	_, ok := s.RemoveLog("missing")
	assert.False(t, ok)
}

func TestRemoveLog_DoesNotAliasCallerSlice(t *testing.T) {
	logs := []XPLog{{ID: "a", Amount: 1}, {ID: "b", Amount: 1}}
	s := Star{Name: "A", XP: 2, Logs: logs}

	_, ok := s.RemoveLog("a")
	require.True(t, ok)
	assert.Equal(t, "a", logs[0].ID)
	assert.Equal(t, "b", s.Logs[0].ID)
}

func TestSortLogs_NewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Star{Logs: []XPLog{
		{ID: "mid", Date: base.Add(time.Hour)},
		{ID: "old", Date: base},
		{ID: "new", Date: base.Add(2 * time.Hour)},
	}}
	s.SortLogs()
	assert.Equal(t, []string{"new", "mid", "old"}, []string{s.Logs[0].ID, s.Logs[1].ID, s.Logs[2].ID})
}

func TestCover(t *testing.T) {
	s := Star{}
	assert.Nil(t, s.Cover())

	s.Gallery = []GalleryItem{{ID: "g1", URL: "u1"}, {ID: "g2", URL: "u2"}}
	require.NotNil(t, s.Cover())
	assert.Equal(t, "g1", s.Cover().ID)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Star{Name: "Test"}))
	require.ErrorIs(t, Validate(Star{Name: "  "}), common.ErrEmptyName)
	require.ErrorIs(t, Validate(Star{Name: "x", XP: -1}), common.ErrInvalidXP)
}

func TestClone_IsDeep(t *testing.T) {
	now := time.Now()
	orig := Star{
		Name:      "A",
		Gallery:   []GalleryItem{{ID: "g", URL: "u", Cutout: strPtr("c")}},
		Logs:      []XPLog{{ID: "l"}},
		Tags:      []string{"t"},
		DeletedAt: &now,
	}
	c := orig.Clone()
	require.Empty(t, cmp.Diff(orig, c))

	*c.Gallery[0].Cutout = "changed"
	c.Tags[0] = "x"
	c.Logs[0].ID = "y"
	assert.Equal(t, "c", *orig.Gallery[0].Cutout)
	assert.Equal(t, "t", orig.Tags[0])
	assert.Equal(t, "l", orig.Logs[0].ID)
}

func TestLegacyGallery_RoundTrip(t *testing.T) {
	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	images := []string{"https://a", "https://b", "data:image/png;base64,AA=="}

	g := LegacyGallery(images, strPtr("https://cut"), added, func(i int) string { return string(rune('a' + i)) })
	require.Len(t, g, 3)
	assert.Equal(t, "a", g[0].ID)
	require.NotNil(t, g[0].Cutout)
	assert.Equal(t, "https://cut", *g[0].Cutout)
	assert.Nil(t, g[1].Cutout)
	assert.Nil(t, g[2].Cutout)

	back, cutout := LegacyImages(g)
	assert.Equal(t, images, back)
	require.NotNil(t, cutout)
	assert.Equal(t, "https://cut", *cutout)

	empty, none := LegacyImages(nil)
	assert.Empty(t, empty)
	assert.Nil(t, none)
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryUnawakened, CategoryOf(0))
	assert.Equal(t, CategoryTemptress, CategoryOf(1))
	assert.Equal(t, CategoryTemptress, CategoryOf(10))
	assert.Equal(t, CategoryEnchantress, CategoryOf(11))
	assert.Equal(t, CategoryEnchantress, CategoryOf(100))
	assert.Equal(t, CategoryGoddess, CategoryOf(101))
}

func TestSortStarsAndSummarize(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stars := []Star{
		{ID: "a", XP: 10, Streak: 2, LastActiveDate: base.Add(3 * time.Hour)},
		{ID: "b", XP: 100, Streak: 30, Favorite: true, LastActiveDate: base},
		{ID: "c", XP: 50, Favorite: true, LastActiveDate: base.Add(time.Hour)},
	}

	ids := func(ss []Star) []string {
		out := make([]string, 0, len(ss))
		for _, s := range ss {
			out = append(out, s.ID)
		}
		return out
	}

	assert.Equal(t, []string{"b", "c", "a"}, ids(SortStars(stars, SortByXP)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(SortStars(stars, SortByRecent)))
	assert.Equal(t, []string{"b", "c"}, ids(SortStars(stars, SortByFavorites)))

	sum := Summarize(stars)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 160, sum.TotalXP)
	assert.Equal(t, 30, sum.MaxStreak)
	assert.Equal(t, 2, sum.Favorites)
	require.NotNil(t, sum.Top)
	assert.Equal(t, "b", sum.Top.ID)

	assert.Nil(t, Summarize(nil).Top)
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByXP, k)

	k, err = ParseSortKey("favorites")
	require.NoError(t, err)
	assert.Equal(t, SortByFavorites, k)

	_, err = ParseSortKey("alphabetical")
	require.Error(t, err)
}

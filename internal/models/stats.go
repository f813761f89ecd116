package models

import (
	"fmt"
	"sort"
)

// SortKey selects a dashboard ordering.
type SortKey string

const (
	SortByXP        SortKey = "xp"
	SortByRecent    SortKey = "recent"
	SortByFavorites SortKey = "favorites"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortByXP:
		return SortByXP, nil
	case SortByRecent, SortByFavorites:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("unknown sort %q", s)
	}
}

// SortStars returns a new slice ordered by key. SortByFavorites also drops
// non-favorites.
func SortStars(stars []Star, key SortKey) []Star {
	out := make([]Star, 0, len(stars))
	for _, s := range stars {
		if key == SortByFavorites && !s.Favorite {
			continue
		}
		out = append(out, s)
	}

	switch key {
	case SortByRecent:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].LastActiveDate.After(out[j].LastActiveDate)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].XP > out[j].XP })
	}
	return out
}

// Summary is the dashboard overview.
type Summary struct {
	Count     int
	TotalXP   int
	MaxStreak int
	Favorites int
	Top       *Star
}

func Summarize(stars []Star) Summary {
	var sum Summary
	for i := range stars {
		s := &stars[i]
		sum.Count++
		sum.TotalXP += s.XP
		if s.Streak > sum.MaxStreak {
			sum.MaxStreak = s.Streak
		}
		if s.Favorite {
			sum.Favorites++
		}
		if sum.Top == nil || s.XP > sum.Top.XP {
			sum.Top = s
		}
	}
	return sum
}

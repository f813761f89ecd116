// Package models defines the StarKeeper domain types and the pure rules
// applied to them (XP accounting, streaks, tiers, dashboard summaries).
package models

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/common"
)

var ErrInvalidAmount = errors.New("xp amount must be positive")

// Star is a tracked profile.
type Star struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`

	// Gallery order is meaningful: index 0 is the cover.
	Gallery []GalleryItem `json:"gallery"`

	XP   int     `json:"xp"`
	Logs []XPLog `json:"logs"`

	Tags        []string `json:"tags"`
	Bio         string   `json:"bio,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	DOB         string   `json:"dob,omitempty"`
	Favorite    bool     `json:"favorite"`

	// Streak counts consecutive calendar days with at least one XP event.
	Streak         int       `json:"streak"`
	LastActiveDate time.Time `json:"lastActiveDate,omitzero"`

	// DeletedAt marks a soft-deleted star; such stars never leave a store.
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// GalleryItem is one image slot. URL and Cutout hold either an inline data
// URL or a durable remote reference.
type GalleryItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Cutout    *string   `json:"cutout"`
	DateAdded time.Time `json:"dateAdded,omitzero"`
}

// XPLog is one engagement event.
type XPLog struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Amount int       `json:"amount"`
	Note   string    `json:"note,omitempty"`
}

// Cover returns the cover item or nil for an empty gallery.
func (s *Star) Cover() *GalleryItem {
	if len(s.Gallery) == 0 {
		return nil
	}
	return &s.Gallery[0]
}

// Deleted reports whether the star carries a soft-delete marker.
func (s *Star) Deleted() bool {
	return s.DeletedAt != nil
}

// SortLogs orders logs newest first.
func (s *Star) SortLogs() {
	SortLogs(s.Logs)
}

func SortLogs(logs []XPLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date.After(logs[j].Date)
	})
}

// Clone returns a deep copy, so callers can mutate without touching the
// original slices.
func (s Star) Clone() Star {
	c := s
	if s.Gallery != nil {
		c.Gallery = make([]GalleryItem, len(s.Gallery))
		for i, g := range s.Gallery {
			if g.Cutout != nil {
				v := *g.Cutout
				g.Cutout = &v
			}
			c.Gallery[i] = g
		}
	}
	if s.Logs != nil {
		c.Logs = append([]XPLog(nil), s.Logs...)
	}
	if s.Tags != nil {
		c.Tags = append([]string(nil), s.Tags...)
	}
	if s.DeletedAt != nil {
		d := *s.DeletedAt
		c.DeletedAt = &d
	}
	return c
}

// Validate checks the fields every store requires.
func Validate(s Star) error {
	if strings.TrimSpace(s.Name) == "" {
		return common.ErrEmptyName
	}
	if s.XP < 0 {
		return common.ErrInvalidXP
	}
	return nil
}

// LegacyGallery builds a gallery from the flat image fields used before
// galleries existed: every image becomes an item, and item 0 takes the
// single cutout. Item ids come from idFor so callers can keep them stable.
func LegacyGallery(images []string, cutout *string, added time.Time, idFor func(i int) string) []GalleryItem {
	gallery := make([]GalleryItem, 0, len(images))
	for i, img := range images {
		item := GalleryItem{ID: idFor(i), URL: img, DateAdded: added}
		if i == 0 && cutout != nil && *cutout != "" {
			c := *cutout
			item.Cutout = &c
		}
		gallery = append(gallery, item)
	}
	return gallery
}

// LegacyImages flattens a gallery back to the legacy columns.
func LegacyImages(gallery []GalleryItem) ([]string, *string) {
	images := make([]string, 0, len(gallery))
	for _, g := range gallery {
		images = append(images, g.URL)
	}
	if len(gallery) == 0 || gallery[0].Cutout == nil {
		return images, nil
	}
	c := *gallery[0].Cutout
	return images, &c
}

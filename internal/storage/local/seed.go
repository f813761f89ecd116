package local

import (
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/models"
)

// defaultStars is written on first run, when no collection blob exists yet.
func defaultStars(now time.Time) []models.Star {
	now = now.UTC()
	return []models.Star{
		{
			ID:       "6f1c2a8e-3b7d-4e5f-9a1b-2c3d4e5f6a70",
			Name:     "Kriti Sanon",
			Nickname: "Param Sundari",
			Gallery: []models.GalleryItem{{
				ID:        "0b9d8c7e-6f5a-4b3c-8d2e-1f0a9b8c7d61",
				URL:       "https://images.unsplash.com/photo-1616091093747-478045110903?q=80&w=600&auto=format&fit=crop",
				DateAdded: now,
			}},
			XP: 100,
			Logs: []models.XPLog{{
				ID:     "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c51",
				Date:   now,
				Amount: 100,
				Note:   "Initial worship",
			}},
			Tags:           []string{"Bollywood", "Model", "Tall", "Brunette"},
			Bio:            "The towering beauty with legs for days and a smile that melts hearts.",
			Nationality:    "🇮🇳 India",
			DOB:            "1990-07-27",
			Favorite:       true,
			Streak:         30,
			LastActiveDate: now,
		},
		{
			ID:       "7e2d3b9f-4c8e-4f60-ab2c-3d4e5f6a7b81",
			Name:     "Alia Bhatt",
			Nickname: "Aloo",
			Gallery: []models.GalleryItem{{
				ID:        "1c0e9d8f-7a6b-4c4d-9e3f-2a1b0c9d8e72",
				URL:       "https://images.unsplash.com/photo-1621784563330-caee0b138a00?q=80&w=600&auto=format&fit=crop",
				DateAdded: now,
			}},
			XP: 10,
			Logs: []models.XPLog{{
				ID:     "b2c3d4e5-f6a7-4b8c-9d0e-1f2a3b4c5d62",
				Date:   now,
				Amount: 10,
				Note:   "Quick spark",
			}},
			Tags:           []string{"Bollywood", "Cute", "Petite"},
			Bio:            "The sparkling star with intense talent and undeniable charm.",
			Nationality:    "🇮🇳 India",
			DOB:            "1993-03-15",
			Favorite:       false,
			Streak:         4,
			LastActiveDate: now,
		},
	}
}

package local

import (
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/identity"
	"github.com/dmitrijs2005/starkeeper/internal/models"
	"github.com/dmitrijs2005/starkeeper/internal/timex"
)

// starRecord is the stored JSON shape. It still understands the flat
// images/imageCutout fields written before galleries existed; a nil Gallery
// means the field was absent, which is different from an empty gallery.
type starRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`

	Gallery     *[]galleryRecord `json:"gallery,omitempty"`
	Images      []string         `json:"images,omitempty"`
	ImageCutout *string          `json:"imageCutout,omitempty"`

	XP   int         `json:"xp"`
	Logs []logRecord `json:"logs"`

	Tags        []string `json:"tags"`
	Bio         string   `json:"bio,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	DOB         string   `json:"dob,omitempty"`
	Favorite    bool     `json:"favorite"`

	Streak         int    `json:"streak"`
	LastActiveDate string `json:"lastActiveDate,omitempty"`
	DeletedAt      string `json:"deletedAt,omitempty"`
}

type galleryRecord struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	Cutout    *string `json:"cutout"`
	DateAdded string  `json:"dateAdded,omitempty"`
}

type logRecord struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Amount    int    `json:"amount"`
	Note      string `json:"note,omitempty"`
	DeletedAt string `json:"deletedAt,omitempty"`
}

var epoch = time.Unix(0, 0).UTC()

func parseTime(s string) time.Time {
	t, err := timex.ParseISO(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r starRecord) deleted() bool {
	return r.DeletedAt != ""
}

// toModel maps a record to a Star, dropping soft-deleted logs and migrating
// the legacy image fields when the gallery is missing. The migration is pure:
// item ids and dates are derived from the record itself, so every read
// produces the same gallery.
func (r starRecord) toModel() models.Star {
	s := models.Star{
		ID:             r.ID,
		Name:           r.Name,
		Nickname:       r.Nickname,
		XP:             r.XP,
		Tags:           r.Tags,
		Bio:            r.Bio,
		Nationality:    r.Nationality,
		DOB:            r.DOB,
		Favorite:       r.Favorite,
		Streak:         r.Streak,
		LastActiveDate: parseTime(r.LastActiveDate),
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if r.DeletedAt != "" {
		d := parseTime(r.DeletedAt)
		s.DeletedAt = &d
	}

	switch {
	case r.Gallery != nil:
		s.Gallery = make([]models.GalleryItem, 0, len(*r.Gallery))
		for _, g := range *r.Gallery {
			s.Gallery = append(s.Gallery, models.GalleryItem{
				ID:        g.ID,
				URL:       g.URL,
				Cutout:    g.Cutout,
				DateAdded: parseTime(g.DateAdded),
			})
		}
	case len(r.Images) > 0:
		added := s.LastActiveDate
		if added.IsZero() {
			added = epoch
		}
		s.Gallery = models.LegacyGallery(r.Images, r.ImageCutout, added, func(i int) string {
			return identity.Derive(r.ID, i)
		})
	default:
		s.Gallery = []models.GalleryItem{}
	}

	s.Logs = make([]models.XPLog, 0, len(r.Logs))
	for _, l := range r.Logs {
		if l.DeletedAt != "" {
			continue
		}
		s.Logs = append(s.Logs, models.XPLog{ID: l.ID, Date: parseTime(l.Date), Amount: l.Amount, Note: l.Note})
	}
	s.SortLogs()

	return s
}

func fromModel(s models.Star) starRecord {
	gallery := make([]galleryRecord, 0, len(s.Gallery))
	for _, g := range s.Gallery {
		gallery = append(gallery, galleryRecord{
			ID:        g.ID,
			URL:       g.URL,
			Cutout:    g.Cutout,
			DateAdded: timex.FormatISO(g.DateAdded),
		})
	}

	logs := make([]logRecord, 0, len(s.Logs))
	for _, l := range s.Logs {
		logs = append(logs, logRecord{ID: l.ID, Date: timex.FormatISO(l.Date), Amount: l.Amount, Note: l.Note})
	}

	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}

	r := starRecord{
		ID:             s.ID,
		Name:           s.Name,
		Nickname:       s.Nickname,
		Gallery:        &gallery,
		XP:             s.XP,
		Logs:           logs,
		Tags:           tags,
		Bio:            s.Bio,
		Nationality:    s.Nationality,
		DOB:            s.DOB,
		Favorite:       s.Favorite,
		Streak:         s.Streak,
		LastActiveDate: timex.FormatISO(s.LastActiveDate),
	}
	if s.DeletedAt != nil {
		r.DeletedAt = timex.FormatISO(*s.DeletedAt)
	}
	return r
}

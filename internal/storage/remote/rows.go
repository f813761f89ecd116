package remote

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/identity"
	"github.com/dmitrijs2005/starkeeper/internal/models"
	"github.com/dmitrijs2005/starkeeper/internal/timex"
)

// starRow mirrors one row of the stars table. JSON columns are kept as raw
// bytes until toModel decodes them.
type starRow struct {
	ID             string
	Name           string
	Nickname       sql.NullString
	Gallery        []byte
	Images         []byte
	ImageCutout    sql.NullString
	XP             int
	Tags           []byte
	Bio            sql.NullString
	Nationality    sql.NullString
	DOB            sql.NullString
	Favorite       bool
	Streak         int
	LastActiveDate sql.NullTime
}

type logRow struct {
	ID     string
	StarID string
	Date   time.Time
	Amount int
	Note   sql.NullString
}

// galleryJSON is the element shape of the gallery jsonb column.
type galleryJSON struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	Cutout    *string `json:"cutout"`
	DateAdded string  `json:"dateAdded,omitempty"`
}

func (r *starRow) scanTargets() []any {
	return []any{
		&r.ID, &r.Name, &r.Nickname, &r.Gallery, &r.Images, &r.ImageCutout,
		&r.XP, &r.Tags, &r.Bio, &r.Nationality, &r.DOB, &r.Favorite,
		&r.Streak, &r.LastActiveDate,
	}
}

func decodeJSON[T any](raw []byte, column string) (T, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", column, err)
	}
	return v, nil
}

// toModel maps a row to a Star. A row whose gallery column is empty but
// whose legacy images are set gets a gallery synthesized from them, with
// ids derived from the star id so every read agrees.
func (r starRow) toModel(logs []models.XPLog) (models.Star, error) {
	gallery, err := decodeJSON[[]galleryJSON](r.Gallery, "gallery")
	if err != nil {
		return models.Star{}, err
	}
	images, err := decodeJSON[[]string](r.Images, "images")
	if err != nil {
		return models.Star{}, err
	}
	tags, err := decodeJSON[[]string](r.Tags, "tags")
	if err != nil {
		return models.Star{}, err
	}
	if tags == nil {
		tags = []string{}
	}

	s := models.Star{
		ID:          r.ID,
		Name:        r.Name,
		Nickname:    r.Nickname.String,
		XP:          r.XP,
		Tags:        tags,
		Bio:         r.Bio.String,
		Nationality: r.Nationality.String,
		DOB:         r.DOB.String,
		Favorite:    r.Favorite,
		Streak:      r.Streak,
	}
	if r.LastActiveDate.Valid {
		s.LastActiveDate = r.LastActiveDate.Time.UTC()
	}

	switch {
	case len(gallery) > 0:
		s.Gallery = make([]models.GalleryItem, 0, len(gallery))
		for _, g := range gallery {
			added, _ := timex.ParseISO(g.DateAdded)
			s.Gallery = append(s.Gallery, models.GalleryItem{ID: g.ID, URL: g.URL, Cutout: g.Cutout, DateAdded: added})
		}
	case len(images) > 0:
		var cutout *string
		if r.ImageCutout.Valid {
			cutout = &r.ImageCutout.String
		}
		added := s.LastActiveDate
		if added.IsZero() {
			added = time.Unix(0, 0).UTC()
		}
		s.Gallery = models.LegacyGallery(images, cutout, added, func(i int) string {
			return identity.Derive(r.ID, i)
		})
	default:
		s.Gallery = []models.GalleryItem{}
	}

	s.Logs = logs
	if s.Logs == nil {
		s.Logs = []models.XPLog{}
	}
	s.SortLogs()

	return s, nil
}

func (r logRow) toModel() models.XPLog {
	return models.XPLog{ID: r.ID, Date: r.Date.UTC(), Amount: r.Amount, Note: r.Note.String}
}

// writeArgs holds the column values shared by insert and update.
type writeArgs struct {
	Nickname       sql.NullString
	Gallery        string
	Images         string
	ImageCutout    sql.NullString
	Tags           string
	Bio            sql.NullString
	Nationality    sql.NullString
	DOB            sql.NullString
	LastActiveDate sql.NullTime
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// newWriteArgs encodes s for storage. The legacy images/image_cutout
// columns are kept in step with the gallery for older readers.
func newWriteArgs(s models.Star) (writeArgs, error) {
	gallery := make([]galleryJSON, 0, len(s.Gallery))
	for _, g := range s.Gallery {
		gallery = append(gallery, galleryJSON{ID: g.ID, URL: g.URL, Cutout: g.Cutout, DateAdded: timex.FormatISO(g.DateAdded)})
	}
	images, cutout := models.LegacyImages(s.Gallery)

	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}

	gj, err := json.Marshal(gallery)
	if err != nil {
		return writeArgs{}, fmt.Errorf("encode gallery: %w", err)
	}
	ij, err := json.Marshal(images)
	if err != nil {
		return writeArgs{}, fmt.Errorf("encode images: %w", err)
	}
	tj, err := json.Marshal(tags)
	if err != nil {
		return writeArgs{}, fmt.Errorf("encode tags: %w", err)
	}

	a := writeArgs{
		Nickname:    nullString(s.Nickname),
		Gallery:     string(gj),
		Images:      string(ij),
		Tags:        string(tj),
		Bio:         nullString(s.Bio),
		Nationality: nullString(s.Nationality),
		DOB:         nullString(s.DOB),
	}
	if cutout != nil {
		a.ImageCutout = nullString(*cutout)
	}
	if !s.LastActiveDate.IsZero() {
		a.LastActiveDate = sql.NullTime{Time: s.LastActiveDate.UTC(), Valid: true}
	}
	return a, nil
}

package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/starkeeper/internal/common"
	"github.com/dmitrijs2005/starkeeper/internal/dbx"
	"github.com/dmitrijs2005/starkeeper/internal/identity"
	"github.com/dmitrijs2005/starkeeper/internal/models"
)

const starColumns = `id, name, nickname, gallery, images, image_cutout, xp, tags, bio,
	nationality, dob, favorite, streak, last_active_date`

// ReadAll returns the live stars of accountID, highest XP first, each with
// its live logs newest first.
func (s *Store) ReadAll(ctx context.Context, accountID string) ([]models.Star, error) {
	var stars []models.Star

	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		logs, err := s.selectLogs(ctx, tx, accountID)
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `SELECT `+starColumns+` FROM stars
			WHERE user_id = $1 AND deleted_at IS NULL
			ORDER BY xp DESC`, accountID)
		if err != nil {
			return fmt.Errorf("select stars: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var r starRow
			if err := rows.Scan(r.scanTargets()...); err != nil {
				return fmt.Errorf("scan star: %w", err)
			}
			st, err := r.toModel(logs[r.ID])
			if err != nil {
				return fmt.Errorf("star %s: %w", r.ID, err)
			}
			stars = append(stars, st)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read remotely: %w", err)
	}

	if stars == nil {
		stars = []models.Star{}
	}
	return stars, nil
}

func (s *Store) selectLogs(ctx context.Context, tx dbx.DBTX, accountID string) (map[string][]models.XPLog, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, star_id, date, amount, note FROM logs
		WHERE user_id = $1 AND deleted_at IS NULL`, accountID)
	if err != nil {
		return nil, fmt.Errorf("select logs: %w", err)
	}
	defer rows.Close()

	byStar := make(map[string][]models.XPLog)
	for rows.Next() {
		var r logRow
		if err := rows.Scan(&r.ID, &r.StarID, &r.Date, &r.Amount, &r.Note); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		byStar[r.StarID] = append(byStar[r.StarID], r.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return byStar, nil
}

// CreateOne inserts star for accountID. A non-canonical id is replaced
// first, and inline images are uploaded under the final id.
func (s *Store) CreateOne(ctx context.Context, star models.Star, accountID string) (models.Star, error) {
	star = star.Clone()
	if id := identity.Ensure(star.ID, s.newID); id != star.ID {
		s.logger.Info(ctx, "replacing non-canonical star id", "old", star.ID, "new", id)
		star.ID = id
	}
	star.Gallery = s.processGallery(ctx, star, accountID)

	a, err := newWriteArgs(star)
	if err != nil {
		return models.Star{}, fmt.Errorf("failed to create remotely: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO stars (id, user_id, name, nickname, gallery, images, image_cutout, xp, tags,
			bio, nationality, dob, favorite, streak, last_active_date, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULL)
		RETURNING id`,
		star.ID, accountID, star.Name, a.Nickname, a.Gallery, a.Images, a.ImageCutout, star.XP, a.Tags,
		a.Bio, a.Nationality, a.DOB, star.Favorite, star.Streak, a.LastActiveDate,
	).Scan(&id)
	if err != nil {
		return models.Star{}, fmt.Errorf("failed to create remotely: %w", err)
	}
	star.ID = id

	star.Logs = s.syncLatestLog(ctx, star, accountID)
	return star, nil
}

// UpdateOne replaces the row of star. Stars that cannot exist remotely yet
// (non-canonical id, or no matching row) are created instead.
func (s *Store) UpdateOne(ctx context.Context, star models.Star, accountID string) (models.Star, error) {
	if !identity.IsCanonical(star.ID) {
		return s.CreateOne(ctx, star, accountID)
	}

	star = star.Clone()
	star.Gallery = s.processGallery(ctx, star, accountID)

	a, err := newWriteArgs(star)
	if err != nil {
		return models.Star{}, fmt.Errorf("failed to update remotely: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE stars SET name = $3, nickname = $4, gallery = $5, images = $6, image_cutout = $7,
			xp = $8, tags = $9, bio = $10, nationality = $11, dob = $12, favorite = $13,
			streak = $14, last_active_date = $15
		WHERE id = $1 AND user_id = $2`,
		star.ID, accountID, star.Name, a.Nickname, a.Gallery, a.Images, a.ImageCutout,
		star.XP, a.Tags, a.Bio, a.Nationality, a.DOB, star.Favorite,
		star.Streak, a.LastActiveDate,
	)
	if err != nil {
		return models.Star{}, fmt.Errorf("failed to update remotely: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Star{}, fmt.Errorf("failed to update remotely: %w", err)
	}
	if n == 0 {
		s.logger.Info(ctx, "star not mirrored yet, creating", "id", star.ID)
		return s.CreateOne(ctx, star, accountID)
	}

	star.Logs = s.syncLatestLog(ctx, star, accountID)
	return star, nil
}

// processGallery uploads every inline url and cutout of star's gallery.
// Failed uploads leave the inline value in place.
func (s *Store) processGallery(ctx context.Context, star models.Star, accountID string) []models.GalleryItem {
	out := make([]models.GalleryItem, len(star.Gallery))
	for i, g := range star.Gallery {
		if s.uploader != nil {
			g.URL = s.uploader.Upload(ctx, accountID, star.ID, g.URL, fmt.Sprintf("main_%d", i)).Value()
			if g.Cutout != nil && *g.Cutout != "" {
				c := s.uploader.Upload(ctx, accountID, star.ID, *g.Cutout, fmt.Sprintf("cutout_%d", i)).Value()
				g.Cutout = &c
			}
		}
		out[i] = g
	}
	return out
}

// syncLatestLog inserts Logs[0], the most recent event, unless the account
// already has a row with its id. Failures are logged and swallowed. It returns the logs with
// any id replacement applied.
func (s *Store) syncLatestLog(ctx context.Context, star models.Star, accountID string) []models.XPLog {
	if len(star.Logs) == 0 {
		return star.Logs
	}
	latest := star.Logs[0]
	latest.ID = identity.Ensure(latest.ID, s.newID)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO logs (id, user_id, star_id, date, amount, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id, user_id) DO NOTHING`,
		latest.ID, accountID, star.ID, latest.Date.UTC(), latest.Amount, nullString(latest.Note),
	)
	if err != nil {
		s.logger.Warn(ctx, "failed to sync latest xp log", "star", star.ID, "log", latest.ID, "err", err)
		return star.Logs
	}

	star.Logs[0] = latest
	return star.Logs
}

func (s *Store) SoftDeleteOne(ctx context.Context, id, accountID string) error {
	return s.SoftDeleteMany(ctx, []string{id}, accountID)
}

// SoftDeleteMany marks the given stars deleted. Ids that are not canonical
// cannot name a remote row and are skipped.
func (s *Store) SoftDeleteMany(ctx context.Context, ids []string, accountID string) error {
	if len(ids) == 0 {
		return common.ErrEmptyIDList
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if identity.IsCanonical(id) {
			keys = append(keys, id)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE stars SET deleted_at = $3
		WHERE user_id = $1 AND id = any($2) AND deleted_at IS NULL`,
		accountID, keys, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete remotely: %w", err)
	}
	return nil
}

// SoftDeleteLog marks a log deleted, or removes the row when the soft
// delete fails.
func (s *Store) SoftDeleteLog(ctx context.Context, logID, accountID string) error {
	if !identity.IsCanonical(logID) {
		return nil
	}

	_, softErr := s.db.ExecContext(ctx, `UPDATE logs SET deleted_at = $3 WHERE id = $1 AND user_id = $2`,
		logID, accountID, s.now().UTC())
	if softErr == nil {
		return nil
	}

	s.logger.Warn(ctx, "soft delete of xp log failed, deleting row", "log", logID, "err", softErr)

	_, err := s.db.ExecContext(ctx, `DELETE FROM logs WHERE id = $1 AND user_id = $2`, logID, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete log remotely: %w", errors.Join(softErr, err))
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/models"
	"github.com/dmitrijs2005/starkeeper/internal/storage"
)

// argOrPrompt returns args[0], or asks for it.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) load(ctx context.Context) ([]models.Star, error) {
	res, err := a.svc.Load(ctx, a.accountID())
	if err != nil {
		return nil, err
	}
	a.lastTier, a.loaded = res.Tier, true
	if res.Tier == storage.TierLocalFallback {
		fmt.Fprintf(a.out, "Cloud unavailable, showing local data. %s\n", storage.Message(res.Cause))
	}
	return res.Stars, nil
}

func (a *App) List(ctx context.Context, args []string) error {
	key := models.SortByXP
	if len(args) > 0 {
		k, err := models.ParseSortKey(args[0])
		if err != nil {
			return usageError("list [xp|recent|favorites]")
		}
		key = k
	}

	stars, err := a.load(ctx)
	if err != nil {
		return err
	}
	stars = models.SortStars(stars, key)
	if len(stars) == 0 {
		fmt.Fprintln(a.out, "No stars yet. Use 'add' to create one.")
		return nil
	}
	for _, s := range stars {
		fmt.Fprintln(a.out, starLine(s))
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter star id to show")
	if err != nil {
		return err
	}
	s, err := a.svc.Get(ctx, id, a.accountID())
	if err != nil {
		return err
	}
	writeStar(a.out, s)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	nickname, err := GetSimpleText(a.reader, "Nickname", a.out)
	if err != nil {
		return err
	}
	tags, err := GetList(a.reader, "Tags", a.out)
	if err != nil {
		return err
	}
	bio, err := GetSimpleText(a.reader, "Bio", a.out)
	if err != nil {
		return err
	}
	nationality, err := GetSimpleText(a.reader, "Nationality", a.out)
	if err != nil {
		return err
	}
	dob, err := GetSimpleText(a.reader, "Date of birth (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	image, err := GetSimpleText(a.reader, "Image URL or data URL (empty for none)", a.out)
	if err != nil {
		return err
	}
	fav, err := Confirm(a.reader, "Favorite?", a.out)
	if err != nil {
		return err
	}

	star := models.Star{
		ID:          a.newID(),
		Name:        name,
		Nickname:    nickname,
		Gallery:     []models.GalleryItem{},
		Logs:        []models.XPLog{},
		Tags:        tags,
		Bio:         bio,
		Nationality: nationality,
		DOB:         dob,
		Favorite:    fav,
	}
	if image != "" {
		star.Gallery = append(star.Gallery, a.newImage(image))
	}

	created, err := a.svc.Create(ctx, star, a.accountID())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", created.Name, created.ID)
	return nil
}

func (a *App) newImage(url string) models.GalleryItem {
	return models.GalleryItem{ID: a.newID(), URL: url, DateAdded: a.now().UTC()}
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter star id to edit")
	if err != nil {
		return err
	}
	s, err := a.svc.GetForUpdate(ctx, id, a.accountID())
	if err != nil {
		return err
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &s.Name},
		{"Nickname", &s.Nickname},
		{"Bio", &s.Bio},
		{"Nationality", &s.Nationality},
		{"Date of birth", &s.DOB},
	}
	for _, f := range fields {
		v, err := GetWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	tags, err := GetWithDefault(a.reader, "Tags (comma separated)", strings.Join(s.Tags, ", "), a.out)
	if err != nil {
		return err
	}
	s.Tags = splitList(tags)

	fav, err := GetWithDefault(a.reader, "Favorite (y/n)", yesNo(s.Favorite), a.out)
	if err != nil {
		return err
	}
	s.Favorite = strings.HasPrefix(strings.ToLower(fav), "y")

	image, err := GetSimpleText(a.reader, "Add image URL (empty to skip)", a.out)
	if err != nil {
		return err
	}
	if image != "" {
		s.Gallery = append(s.Gallery, a.newImage(image))
	}

	updated, err := a.svc.Update(ctx, s, a.accountID())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s\n", updated.Name)
	return nil
}

func (a *App) AwardXP(ctx context.Context, args []string) error {
	const usage = "xp <id> <amount> [note]"
	if len(args) < 2 {
		return usageError(usage)
	}
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return usageError(usage)
	}
	note := strings.Join(args[2:], " ")

	s, err := a.svc.AwardXP(ctx, args[0], amount, note, a.accountID())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "+%d XP for %s: %d XP (%s), streak %d\n",
		amount, s.Name, s.XP, models.CategoryOf(s.XP), s.Streak)
	return nil
}

func (a *App) RemoveLog(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("rmlog <id> <log id>")
	}
	s, err := a.svc.RemoveLog(ctx, args[0], args[1], a.accountID())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed. %s now has %d XP\n", s.Name, s.XP)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter star id to delete")
	if err != nil {
		return err
	}
	s, err := a.svc.GetForUpdate(ctx, id, a.accountID())
	if err != nil {
		return err
	}

	if isTerminal(a.stdinFd) {
		ok, err := Confirm(a.reader, fmt.Sprintf("Delete %s?", s.Name), a.out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
	}

	if err := a.svc.Delete(ctx, id, a.accountID()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", s.Name)
	return nil
}

func (a *App) Purge(ctx context.Context, args []string) error {
	ids := args
	if len(ids) == 0 {
		var err error
		ids, err = GetList(a.reader, "Star ids to delete", a.out)
		if err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "Nothing to delete")
		return nil
	}

	if isTerminal(a.stdinFd) {
		ok, err := Confirm(a.reader, fmt.Sprintf("Delete %d stars?", len(ids)), a.out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
	}

	if err := a.svc.BulkDelete(ctx, ids, a.accountID()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d stars\n", len(ids))
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	stars, err := a.load(ctx)
	if err != nil {
		return err
	}
	writeSummary(a.out, stars)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "Account: %s (%s)\n", a.accountLabel(), a.account.Source)

	remote := a.svc.UseRemote(a.accountID())
	if remote {
		fmt.Fprintln(a.out, "Backend: remote")
	} else {
		fmt.Fprintln(a.out, "Backend: local")
	}
	if a.loaded {
		fmt.Fprintf(a.out, "Last read from: %s\n", a.lastTier)
	}

	if remote && a.ping != nil {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.ping(pctx)
		cancel()
		if err != nil {
			fmt.Fprintf(a.out, "Cloud: unreachable. %s\n", storage.Message(err))
		} else {
			fmt.Fprintln(a.out, "Cloud: reachable")
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

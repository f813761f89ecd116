package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/starkeeper/internal/models"
	"github.com/dmitrijs2005/starkeeper/internal/storage/assets"
	"github.com/dmitrijs2005/starkeeper/internal/timex"
)

func starLine(s models.Star) string {
	fav := " "
	if s.Favorite {
		fav = "*"
	}
	name := s.Name
	if s.Nickname != "" {
		name = fmt.Sprintf("%s (%s)", s.Name, s.Nickname)
	}
	return fmt.Sprintf("%s %-36s  %-30s %5d XP  %-11s streak %d",
		fav, s.ID, name, s.XP, models.CategoryOf(s.XP), s.Streak)
}

// imageRef shortens inline images so a data URL does not flood the screen.
func imageRef(s string) string {
	if assets.IsInline(s) {
		if d, err := assets.ParseDataURL(s); err == nil && d.MIME != "" {
			return fmt.Sprintf("<inline %s, %d bytes>", d.MIME, len(d.Data))
		}
		return "<inline image>"
	}
	return s
}

func writeStar(w io.Writer, s models.Star) {
	fmt.Fprintf(w, "%s\n", s.Name)
	if s.Nickname != "" {
		fmt.Fprintf(w, "  Nickname:    %s\n", s.Nickname)
	}
	fmt.Fprintf(w, "  ID:          %s\n", s.ID)
	fmt.Fprintf(w, "  XP:          %d (%s)\n", s.XP, models.CategoryOf(s.XP))
	fmt.Fprintf(w, "  Streak:      %d\n", s.Streak)
	if !s.LastActiveDate.IsZero() {
		fmt.Fprintf(w, "  Last active: %s\n", timex.FormatISO(s.LastActiveDate))
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(w, "  Tags:        %s\n", strings.Join(s.Tags, ", "))
	}
	if s.Nationality != "" {
		fmt.Fprintf(w, "  Nationality: %s\n", s.Nationality)
	}
	if s.DOB != "" {
		fmt.Fprintf(w, "  Born:        %s\n", s.DOB)
	}
	if s.Favorite {
		fmt.Fprintln(w, "  Favorite")
	}
	if s.Bio != "" {
		fmt.Fprintf(w, "  Bio:         %s\n", s.Bio)
	}

	if len(s.Gallery) > 0 {
		fmt.Fprintln(w, "  Gallery:")
		for i, g := range s.Gallery {
			label := ""
			if i == 0 {
				label = " (cover)"
			}
			fmt.Fprintf(w, "    %s%s %s\n", g.ID, label, imageRef(g.URL))
			if g.Cutout != nil {
				fmt.Fprintf(w, "      cutout %s\n", imageRef(*g.Cutout))
			}
		}
	}

	if len(s.Logs) > 0 {
		fmt.Fprintln(w, "  XP log:")
		for _, l := range s.Logs {
			fmt.Fprintf(w, "    %s  %s  %+d", l.ID, timex.FormatISO(l.Date), l.Amount)
			if l.Note != "" {
				fmt.Fprintf(w, "  %s", l.Note)
			}
			fmt.Fprintln(w)
		}
	}
}

var categories = []models.Category{
	models.CategoryGoddess,
	models.CategoryEnchantress,
	models.CategoryTemptress,
	models.CategoryUnawakened,
}

func writeSummary(w io.Writer, stars []models.Star) {
	sum := models.Summarize(stars)
	fmt.Fprintf(w, "Stars:      %d\n", sum.Count)
	fmt.Fprintf(w, "Total XP:   %d\n", sum.TotalXP)
	fmt.Fprintf(w, "Favorites:  %d\n", sum.Favorites)
	fmt.Fprintf(w, "Best streak %d\n", sum.MaxStreak)
	if sum.Top != nil {
		fmt.Fprintf(w, "Top:        %s (%d XP)\n", sum.Top.Name, sum.Top.XP)
	}

	byCat := map[models.Category]int{}
	for _, s := range stars {
		byCat[models.CategoryOf(s.XP)]++
	}
	for _, c := range categories {
		fmt.Fprintf(w, "  %-12s %d\n", c, byCat[c])
	}
}

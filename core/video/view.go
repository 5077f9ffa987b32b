package video

import (
	"fmt"

	"github.com/irsalhamdi/learnportal/core/category"
	"github.com/irsalhamdi/learnportal/core/listing"
)

const (
	emptySearch  = "No videos found matching your search."
	emptyLibrary = "No videos available yet. Check back soon!"
)

type Filters struct {
	Category string `json:"category" validate:"omitempty,eq=all|uuid"`
	Search   string `json:"q" validate:"max=200"`
}

func Filter(videos []Video, f Filters) []Video {
	return listing.Filter(videos,
		listing.MatchRef(f.Category, func(v Video) *string { return v.CategoryID }),
		listing.MatchText(f.Search,
			func(v Video) string { return v.Title },
			func(v Video) *string { return v.Description },
		),
	)
}

type Card struct {
	Video
	Duration string `json:"duration"`
	Minutes  int    `json:"minutes"`
}

type View struct {
	listing.Outcome
	Categories   []category.Category `json:"categories"`
	Filters      Filters             `json:"filters"`
	Videos       []Card              `json:"videos"`
	Total        int                 `json:"total"`
	EmptyMessage string              `json:"emptyMessage,omitempty"`
}

func Present(videos []Video, cats []category.Category, f Filters) View {
	f.Category = listing.Selection(f.Category)

	visible := Filter(videos, f)
	v := View{
		Outcome:    listing.Outcome{State: listing.Ready},
		Categories: cats,
		Filters:    f,
		Videos:     make([]Card, 0, len(visible)),
		Total:      len(visible),
	}
	if v.Categories == nil {
		v.Categories = []category.Category{}
	}
	for _, vid := range visible {
		v.Videos = append(v.Videos, Card{
			Video:    vid,
			Duration: FormatDuration(vid.DurationSeconds),
			Minutes:  Minutes(vid.DurationSeconds),
		})
	}
	if len(visible) == 0 {
		v.EmptyMessage = emptyLibrary
		if f.Search != "" {
			v.EmptyMessage = emptySearch
		}
	}
	return v
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Minutes rounds seconds up to whole minutes.
func Minutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}

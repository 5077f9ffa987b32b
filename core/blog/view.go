package blog

import (
	"github.com/irsalhamdi/learnportal/core/category"
	"github.com/irsalhamdi/learnportal/core/listing"
)

const (
	maxTags = 3

	dateLayout = "Jan 2, 2006"
	undated    = "Recently"

	emptySearch = "No articles found matching your search."
	emptyBlog   = "No articles available yet. Check back soon!"
)

type Filters struct {
	Category string `json:"category" validate:"omitempty,eq=all|uuid"`
	Search   string `json:"q" validate:"max=200"`
}

// Filter keeps the posts in the selected category whose title or excerpt
// contains the search text.
func Filter(posts []Post, f Filters) []Post {
	return listing.Filter(posts,
		listing.MatchRef(f.Category, func(p Post) *string { return p.CategoryID }),
		listing.MatchText(f.Search,
			func(p Post) string { return p.Title },
			func(p Post) *string { return p.Excerpt },
		),
	)
}

type Card struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Slug               string   `json:"slug"`
	Excerpt            *string  `json:"excerpt"`
	CoverImageURL      *string  `json:"cover_image_url"`
	CategoryID         *string  `json:"category_id"`
	Tags               []string `json:"tags"`
	PublishedLabel     string   `json:"publishedLabel"`
	ReadingTimeMinutes int      `json:"reading_time_minutes"`
	ViewsCount         int      `json:"views_count"`
}

type View struct {
	listing.Outcome
	Categories   []category.Category `json:"categories"`
	Filters      Filters             `json:"filters"`
	Posts        []Card              `json:"posts"`
	Total        int                 `json:"total"`
	EmptyMessage string              `json:"emptyMessage,omitempty"`
}

func Present(posts []Post, cats []category.Category, f Filters) View {
	f.Category = listing.Selection(f.Category)

	visible := Filter(posts, f)
	v := View{
		Outcome:    listing.Outcome{State: listing.Ready},
		Categories: cats,
		Filters:    f,
		Posts:      make([]Card, 0, len(visible)),
		Total:      len(visible),
	}
	if v.Categories == nil {
		v.Categories = []category.Category{}
	}
	for _, p := range visible {
		v.Posts = append(v.Posts, card(p))
	}
	if len(visible) == 0 {
		v.EmptyMessage = EmptyMessage(f.Search)
	}
	return v
}

// EmptyMessage is shown when no post is visible.
func EmptyMessage(search string) string {
	if search != "" {
		return emptySearch
	}
	return emptyBlog
}

func card(p Post) Card {
	tags := p.Tags
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return Card{
		ID:                 p.ID,
		Title:              p.Title,
		Slug:               p.Slug,
		Excerpt:            p.Excerpt,
		CoverImageURL:      p.CoverImageURL,
		CategoryID:         p.CategoryID,
		Tags:               append([]string{}, tags...),
		PublishedLabel:     PublishedLabel(p),
		ReadingTimeMinutes: p.ReadingTimeMinutes,
		ViewsCount:         p.ViewsCount,
	}
}

// PublishedLabel renders the publish date, or "Recently" for undated posts.
func PublishedLabel(p Post) string {
	if p.PublishedAt == nil {
		return undated
	}
	return p.PublishedAt.UTC().Format(dateLayout)
}

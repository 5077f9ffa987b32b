package course

import (
	"github.com/irsalhamdi/learnportal/core/category"
	"github.com/irsalhamdi/learnportal/core/listing"
)

// FeaturedCount is how many leading courses of the visible set are featured.
const FeaturedCount = 2

const (
	ctaSignedIn  = "Enroll Now"
	ctaAnonymous = "Sign In to Enroll"
	emptyMessage = "No courses found matching your criteria"
)

// Filters is the predicate state of the courses view.
type Filters struct {
	Category   string `json:"category" validate:"omitempty,eq=all|uuid"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=all beginner intermediate advanced"`
}

// Filter returns the courses matching both the category and the difficulty.
func Filter(courses []Course, f Filters) []Course {
	return listing.Filter(courses,
		listing.MatchRef(f.Category, func(c Course) *string { return c.CategoryID }),
		listing.MatchValue(f.Difficulty, func(c Course) string { return c.Difficulty }),
	)
}

type Card struct {
	Course
	Featured bool   `json:"featured"`
	CTA      string `json:"cta"`
}

type View struct {
	listing.Outcome
	Categories   []category.Category `json:"categories"`
	Difficulties []string            `json:"difficulties"`
	Filters      Filters             `json:"filters"`
	Featured     []Card              `json:"featured"`
	Regular      []Card              `json:"regular"`
	RegularCount int                 `json:"regularCount"`
	Total        int                 `json:"total"`
	EmptyMessage string              `json:"emptyMessage,omitempty"`
}

// Present builds the courses view from the loaded sets.
func Present(courses []Course, cats []category.Category, f Filters, signedIn bool) View {
	f.Category = listing.Selection(f.Category)
	f.Difficulty = listing.Selection(f.Difficulty)

	visible := Filter(courses, f)
	featured, regular := listing.Split(visible, FeaturedCount)

	cta := ctaAnonymous
	if signedIn {
		cta = ctaSignedIn
	}

	v := View{
		Outcome:      listing.Outcome{State: listing.Ready},
		Categories:   cats,
		Difficulties: append([]string{listing.All}, Difficulties...),
		Filters:      f,
		Featured:     cards(featured, true, cta),
		Regular:      cards(regular, false, cta),
		RegularCount: len(regular),
		Total:        len(visible),
	}
	if v.Categories == nil {
		v.Categories = []category.Category{}
	}
	if len(visible) == 0 {
		v.EmptyMessage = emptyMessage
	}
	return v
}

func cards(cs []Course, featured bool, cta string) []Card {
	out := make([]Card, 0, len(cs))
	for _, c := range cs {
		out = append(out, Card{Course: c, Featured: featured, CTA: cta})
	}
	return out
}

package dashboard

import (
	"github.com/irsalhamdi/learnportal/core/listing"
	"github.com/irsalhamdi/learnportal/core/profile"
)

const (
	signInPrompt  = "Please sign in to view your dashboard"
	noEnrollments = "You haven't enrolled in any courses yet."
	untitled      = "Course"
	enrolledDate  = "1/2/2006"
)

type EnrollmentCard struct {
	Enrollment
	Title         string `json:"title"`
	EnrolledLabel string `json:"enrolledLabel"`
	Completed     bool   `json:"completed"`
}

type View struct {
	listing.Outcome
	SignedIn     bool             `json:"signedIn"`
	Prompt       string           `json:"prompt,omitempty"`
	Welcome      string           `json:"welcome,omitempty"`
	Initial      string           `json:"initial,omitempty"`
	Stats        *Stats           `json:"stats,omitempty"`
	Enrollments  []EnrollmentCard `json:"enrollments"`
	EmptyMessage string           `json:"emptyMessage,omitempty"`
	Profile      *profile.Profile `json:"profile"`
	Editor       *profile.Editor  `json:"editor,omitempty"`
}

// Anonymous is the view shown to visitors who are not signed in.
func Anonymous() View {
	return View{
		Outcome:     listing.Outcome{State: listing.Ready},
		Prompt:      signInPrompt,
		Enrollments: []EnrollmentCard{},
	}
}

// Present builds the dashboard of a signed-in user. p is nil when the
// profile could not be loaded.
func Present(es []Enrollment, p *profile.Profile, ed profile.Editor) View {
	stats := Summarize(es)
	v := View{
		Outcome:     listing.Outcome{State: listing.Ready},
		SignedIn:    true,
		Welcome:     profile.WelcomeName(p),
		Initial:     profile.Initial(p),
		Stats:       &stats,
		Enrollments: make([]EnrollmentCard, 0, len(es)),
		Profile:     p,
		Editor:      &ed,
	}
	if ed.Mode == "" {
		v.Editor.Mode = profile.Viewing
	}
	for _, e := range es {
		title := untitled
		if e.Course != nil && e.Course.Title != "" {
			title = e.Course.Title
		}
		v.Enrollments = append(v.Enrollments, EnrollmentCard{
			Enrollment:    e,
			Title:         title,
			EnrolledLabel: e.EnrolledAt.UTC().Format(enrolledDate),
			Completed:     e.CompletedAt != nil,
		})
	}
	if len(es) == 0 {
		v.EmptyMessage = noEnrollments
	}
	return v
}

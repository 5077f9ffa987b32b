// Package dashboard serves the signed-in user's enrollments, progress
// statistics and profile editor.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/irsalhamdi/learnportal/core/course"
	"github.com/irsalhamdi/learnportal/store"
)

// Table is the store table holding enrollments.
const Table = "course_enrollments"

type Enrollment struct {
	ID                 string         `json:"id" db:"id"`
	UserID             string         `json:"user_id" db:"user_id"`
	CourseID           string         `json:"course_id" db:"course_id"`
	EnrolledAt         time.Time      `json:"enrolled_at" db:"enrolled_at"`
	CompletedAt        *time.Time     `json:"completed_at" db:"completed_at"`
	ProgressPercentage int            `json:"progress_percentage" db:"progress_percentage"`
	Course             *course.Course `json:"course,omitempty" db:"-"`
}

// ForUserQuery lists the enrollments of userID, most recent first.
func ForUserQuery(userID string) store.Query {
	return store.From(Table).Eq("user_id", userID).OrderBy("enrolled_at", false)
}

// CourseIDs returns the distinct course ids of es in first-seen order.
func CourseIDs(es []Enrollment) []string {
	seen := make(map[string]bool, len(es))
	ids := make([]string, 0, len(es))
	for _, e := range es {
		if e.CourseID == "" || seen[e.CourseID] {
			continue
		}
		seen[e.CourseID] = true
		ids = append(ids, e.CourseID)
	}
	return ids
}

// Join attaches each enrollment's course. Enrollments whose course is
// missing keep a nil Course.
func Join(es []Enrollment, cs []course.Course) []Enrollment {
	byID := make(map[string]*course.Course, len(cs))
	for i := range cs {
		byID[cs[i].ID] = &cs[i]
	}
	out := make([]Enrollment, len(es))
	for i, e := range es {
		e.Course = byID[e.CourseID]
		out[i] = e
	}
	return out
}

type Stats struct {
	Enrolled     int    `json:"enrolled"`
	Completed    int    `json:"completed"`
	InProgress   int    `json:"inProgress"`
	Average      int    `json:"average"`
	AverageLabel string `json:"averageLabel"`
}

// Summarize computes the progress statistics. The average of no
// enrollments is 0.
func Summarize(es []Enrollment) Stats {
	s := Stats{Enrolled: len(es)}
	sum := 0
	for _, e := range es {
		sum += e.ProgressPercentage
		switch {
		case e.ProgressPercentage == 100:
			s.Completed++
		case e.ProgressPercentage > 0 && e.ProgressPercentage < 100:
			s.InProgress++
		}
	}
	s.Average = int(math.Round(float64(sum) / float64(max(len(es), 1))))
	s.AverageLabel = fmt.Sprintf("%d%%", s.Average)
	return s
}

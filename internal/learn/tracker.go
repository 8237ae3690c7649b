package learn

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexus-sapiens/nexus/internal/progress"
)

// Progress namespaces used by the tracker.
const (
	nsChallenges = "challenges"
	nsSkills     = "skills"
	nsCourses    = "courses"
)

// ErrSkillLocked reports a completion attempt on a skill whose
// prerequisites are not all done.
var ErrSkillLocked = errors.New("skill is locked")

// ChallengeStatus pairs a challenge with its completion.
type ChallengeStatus struct {
	Challenge
	Done bool `json:"done"`
}

// SkillStatus pairs a skill with its completion and unlock state.
type SkillStatus struct {
	Skill
	Done     bool `json:"done"`
	Unlocked bool `json:"unlocked"`
}

// LessonStatus pairs a lesson with its completion.
type LessonStatus struct {
	Lesson
	Done bool `json:"done"`
}

// CourseStatus is a course with per-lesson completion.
type CourseStatus struct {
	Course
	LessonStatus []LessonStatus `json:"lesson_status"`
	DoneCount    int            `json:"done_count"`
}

// Standing is the learner's overall position.
type Standing struct {
	Rank                Rank  `json:"rank"`
	NextRank            *Rank `json:"next_rank,omitempty"`
	CompletedChallenges int   `json:"completed_challenges"`
	Points              int   `json:"points"`
}

// Tracker binds the content catalog to the progress store.
type Tracker struct {
	catalog Catalog
	store   *progress.Store
	logger  *slog.Logger
}

// NewTracker creates a Tracker.
func NewTracker(catalog Catalog, store *progress.Store, logger *slog.Logger) (*Tracker, error) {
	if store == nil {
		return nil, errors.New("progress store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Tracker{catalog: catalog, store: store, logger: logger}, nil
}

// Catalog returns the content this tracker serves.
func (t *Tracker) Catalog() Catalog {
	return t.catalog
}

// Challenges returns every challenge with its completion state.
func (t *Tracker) Challenges() ([]ChallengeStatus, error) {
	done, err := t.store.Load(nsChallenges)
	if err != nil {
		return nil, err
	}
	out := make([]ChallengeStatus, 0, len(t.catalog.Challenges))
	for _, ch := range t.catalog.Challenges {
		out = append(out, ChallengeStatus{Challenge: ch, Done: done[ch.ID]})
	}
	return out, nil
}

// CompleteChallenge marks a challenge done.
func (t *Tracker) CompleteChallenge(id string) (Challenge, error) {
	ch, err := t.catalog.challenge(id)
	if err != nil {
		return Challenge{}, err
	}
	if err := t.store.Set(nsChallenges, id, true); err != nil {
		return Challenge{}, err
	}
	t.logger.Info("challenge completed", "challenge", id)
	return ch, nil
}

// Skills returns every skill with completion and unlock state, in
// catalog order.
func (t *Tracker) Skills() ([]SkillStatus, error) {
	done, err := t.store.Load(nsSkills)
	if err != nil {
		return nil, err
	}
	out := make([]SkillStatus, 0, len(t.catalog.Skills))
	for _, s := range t.catalog.Skills {
		out = append(out, SkillStatus{
			Skill:    s,
			Done:     done[s.ID],
			Unlocked: unlocked(s, done),
		})
	}
	return out, nil
}

func unlocked(s Skill, done map[string]bool) bool {
	for _, req := range s.Requires {
		if !done[req] {
			return false
		}
	}
	return true
}

// CompleteSkill marks a skill done. Locked skills are rejected.
func (t *Tracker) CompleteSkill(id string) (Skill, error) {
	s, err := t.catalog.skill(id)
	if err != nil {
		return Skill{}, err
	}
	done, err := t.store.Load(nsSkills)
	if err != nil {
		return Skill{}, err
	}
	if !unlocked(s, done) {
		return Skill{}, fmt.Errorf("%w: %q requires %v", ErrSkillLocked, id, s.Requires)
	}
	if err := t.store.Set(nsSkills, id, true); err != nil {
		return Skill{}, err
	}
	t.logger.Info("skill completed", "skill", id)
	return s, nil
}

// Courses returns every course with per-lesson completion.
func (t *Tracker) Courses() ([]CourseStatus, error) {
	done, err := t.store.Load(nsCourses)
	if err != nil {
		return nil, err
	}
	out := make([]CourseStatus, 0, len(t.catalog.Courses))
	for _, co := range t.catalog.Courses {
		status := CourseStatus{Course: co}
		for _, l := range co.Lessons {
			d := done[lessonKey(co.ID, l.ID)]
			status.LessonStatus = append(status.LessonStatus, LessonStatus{Lesson: l, Done: d})
			if d {
				status.DoneCount++
			}
		}
		out = append(out, status)
	}
	return out, nil
}

// CompleteLesson marks one lesson of a course done.
func (t *Tracker) CompleteLesson(courseID, lessonID string) error {
	co, err := t.catalog.course(courseID)
	if err != nil {
		return err
	}
	found := false
	for _, l := range co.Lessons {
		if l.ID == lessonID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: lesson %q in course %q", ErrUnknownID, lessonID, courseID)
	}
	return t.store.Set(nsCourses, lessonKey(courseID, lessonID), true)
}

func lessonKey(courseID, lessonID string) string {
	return courseID + "/" + lessonID
}

// Standing computes rank and points from completed challenges.
func (t *Tracker) Standing() (Standing, error) {
	done, err := t.store.Load(nsChallenges)
	if err != nil {
		return Standing{}, err
	}

	completed, points := 0, 0
	for _, ch := range t.catalog.Challenges {
		if done[ch.ID] {
			completed++
			points += ch.Points
		}
	}

	rank, next := t.catalog.RankFor(completed)
	return Standing{
		Rank:                rank,
		NextRank:            next,
		CompletedChallenges: completed,
		Points:              points,
	}, nil
}

// Package learn holds the gamified learning content: challenges, a
// skill tree with prerequisites, course checklists, and a rank ladder
// driven by completed challenges.
package learn

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownID reports a challenge, skill, course, or lesson that is
// not in the catalog.
var ErrUnknownID = errors.New("unknown learning item")

// Challenge is one completable exercise.
type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// Skill is one node of the skill tree. It unlocks once every skill in
// Requires is completed.
type Skill struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Requires []string `json:"requires,omitempty"`
}

// Lesson is one checklist item of a course.
type Lesson struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Course is an ordered lesson checklist.
type Course struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Source   string   `json:"source,omitempty"` // URL for imported courses
	Lessons  []Lesson `json:"lessons"`
	Imported bool     `json:"imported,omitempty"`
}

// Rank is one step of the ladder. MinCompleted is the challenge count
// needed to hold it.
type Rank struct {
	Name         string `json:"name"`
	MinCompleted int    `json:"min_completed"`
}

// Catalog is the full content set: built-ins plus imported courses.
type Catalog struct {
	Challenges []Challenge
	Skills     []Skill
	Courses    []Course
	Ranks      []Rank
}

// importedCoursesDir is the subdirectory of the data dir where
// imported courses live, one JSON file each.
const importedCoursesDir = "courses"

// LoadCatalog returns the built-in content merged with any imported
// courses found under dataDir. An unreadable imported course is
// skipped, not fatal.
func LoadCatalog(dataDir string) Catalog {
	c := builtinCatalog()

	entries, err := os.ReadDir(filepath.Join(dataDir, importedCoursesDir))
	if err != nil {
		return c
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dataDir, importedCoursesDir, e.Name()))
		if err != nil {
			continue
		}
		var course Course
		if err := json.Unmarshal(data, &course); err != nil || course.ID == "" {
			continue
		}
		course.Imported = true
		c.Courses = append(c.Courses, course)
	}

	sort.SliceStable(c.Courses, func(i, j int) bool {
		if c.Courses[i].Imported != c.Courses[j].Imported {
			return !c.Courses[i].Imported
		}
		return c.Courses[i].ID < c.Courses[j].ID
	})
	return c
}

func (c Catalog) challenge(id string) (Challenge, error) {
	for _, ch := range c.Challenges {
		if ch.ID == id {
			return ch, nil
		}
	}
	return Challenge{}, fmt.Errorf("%w: challenge %q", ErrUnknownID, id)
}

func (c Catalog) skill(id string) (Skill, error) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, nil
		}
	}
	return Skill{}, fmt.Errorf("%w: skill %q", ErrUnknownID, id)
}

func (c Catalog) course(id string) (Course, error) {
	for _, co := range c.Courses {
		if co.ID == id {
			return co, nil
		}
	}
	return Course{}, fmt.Errorf("%w: course %q", ErrUnknownID, id)
}

// RankFor returns the rank held at the given completed-challenge
// count, and the next rank if any.
func (c Catalog) RankFor(completed int) (current Rank, next *Rank) {
	for i, r := range c.Ranks {
		if completed >= r.MinCompleted {
			current = r
			if i+1 < len(c.Ranks) {
				n := c.Ranks[i+1]
				next = &n
			} else {
				next = nil
			}
		}
	}
	return current, next
}

// builtinCatalog is the static Spanish-first content set.
func builtinCatalog() Catalog {
	return Catalog{
		Challenges: []Challenge{
			{ID: "primer-contacto", Title: "Primer contacto", Description: "Envía tu primer mensaje a un agente.", Points: 5},
			{ID: "cambia-de-agente", Title: "Cambia de agente", Description: "Conversa con dos agentes distintos.", Points: 10},
			{ID: "plan-semanal", Title: "Plan semanal", Description: "Pide a Stratego un plan de estudio de una semana.", Points: 15},
			{ID: "depura-un-error", Title: "Depura un error", Description: "Resuelve un error de código con Forge.", Points: 20},
			{ID: "resumen-profundo", Title: "Resumen profundo", Description: "Pide a Sabio el resumen de un tema complejo.", Points: 20},
			{ID: "idea-nueva", Title: "Idea nueva", Description: "Desarrolla una idea original con Chispa.", Points: 25},
		},
		Skills: []Skill{
			{ID: "conversacion", Name: "Conversación"},
			{ID: "preguntas-claras", Name: "Preguntas claras", Requires: []string{"conversacion"}},
			{ID: "iteracion", Name: "Iteración", Requires: []string{"preguntas-claras"}},
			{ID: "contexto", Name: "Gestión de contexto", Requires: []string{"preguntas-claras"}},
			{ID: "sintesis", Name: "Síntesis", Requires: []string{"iteracion", "contexto"}},
		},
		Courses: []Course{
			{
				ID:    "fundamentos",
				Title: "Fundamentos de Nexus",
				Lessons: []Lesson{
					{ID: "que-es-un-agente", Title: "Qué es un agente"},
					{ID: "elige-tu-mentor", Title: "Elige tu mentor"},
					{ID: "primera-conversacion", Title: "Tu primera conversación"},
				},
			},
			{
				ID:    "estudio-efectivo",
				Title: "Estudio efectivo con IA",
				Lessons: []Lesson{
					{ID: "define-la-meta", Title: "Define la meta"},
					{ID: "divide-el-tema", Title: "Divide el tema"},
					{ID: "comprueba-lo-aprendido", Title: "Comprueba lo aprendido"},
					{ID: "repasa-con-el-agente", Title: "Repasa con el agente"},
				},
			},
		},
		Ranks: []Rank{
			{Name: "Novato", MinCompleted: 0},
			{Name: "Aprendiz", MinCompleted: 2},
			{Name: "Explorador", MinCompleted: 4},
			{Name: "Sabio", MinCompleted: 6},
		},
	}
}

package learn

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/nexus-sapiens/nexus/internal/i18n"
)

// fetchTimeout bounds the article download.
const fetchTimeout = 30 * time.Second

// paragraphsPerLesson groups extracted paragraphs into lesson-sized
// chunks.
const paragraphsPerLesson = 4

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Importer turns web articles into imported courses stored under the
// data dir.
type Importer struct {
	dataDir string
	logger  *slog.Logger

	// fetch is swappable in tests.
	fetch func(url string, timeout time.Duration) (readability.Article, error)
}

// NewImporter creates an Importer writing into dataDir.
func NewImporter(dataDir string, logger *slog.Logger) (*Importer, error) {
	if dataDir == "" {
		return nil, errors.New("data dir is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Importer{
		dataDir: dataDir,
		logger:  logger,
		fetch: func(url string, timeout time.Duration) (readability.Article, error) {
			return readability.FromURL(url, timeout)
		},
	}, nil
}

// Import downloads the page, extracts its readable text, and saves it
// as a course whose lessons are consecutive text sections.
func (i *Importer) Import(url string) (Course, error) {
	article, err := i.fetch(url, fetchTimeout)
	if err != nil {
		return Course{}, fmt.Errorf("fetching article: %w", err)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = url
	}

	course := Course{
		ID:       slugify(title),
		Title:    title,
		Source:   url,
		Lessons:  lessonsFromText(article.TextContent),
		Imported: true,
	}
	if len(course.Lessons) == 0 {
		return Course{}, errors.New("article has no readable content")
	}

	if err := i.save(course); err != nil {
		return Course{}, err
	}
	i.logger.Info("course imported", "course", course.ID, "lessons", len(course.Lessons))
	return course, nil
}

func (i *Importer) save(course Course) error {
	dir := filepath.Join(i.dataDir, importedCoursesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating courses dir: %w", err)
	}

	data, err := json.MarshalIndent(course, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding course: %w", err)
	}

	path := filepath.Join(dir, course.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing course: %w", err)
	}
	return nil
}

func slugify(s string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "curso-importado"
	}
	if len(slug) > 64 {
		slug = strings.Trim(slug[:64], "-")
	}
	return slug
}

// lessonsFromText splits extracted text into lesson-sized sections.
func lessonsFromText(text string) []Lesson {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var lessons []Lesson
	for start := 0; start < len(paragraphs); start += paragraphsPerLesson {
		n := len(lessons) + 1
		lessons = append(lessons, Lesson{
			ID:    fmt.Sprintf("parte-%d", n),
			Title: i18n.Sprintf("learn.course.part", n),
		})
	}
	return lessons
}

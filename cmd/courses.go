package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexus-sapiens/nexus/internal/i18n"
	"github.com/nexus-sapiens/nexus/internal/learn"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Cursos y lecciones, incluidos los importados",
	RunE:  runCoursesList,
}

var coursesCompleteCmd = &cobra.Command{
	Use:   "complete <curso> <lección>",
	Short: "Marcar una lección como completada",
	Args:  cobra.ExactArgs(2),
	RunE:  runCoursesComplete,
}

var coursesImportCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Importar un artículo web como curso",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoursesImport,
}

func init() {
	coursesCmd.AddCommand(coursesCompleteCmd, coursesImportCmd)
	rootCmd.AddCommand(coursesCmd)
}

func runCoursesList(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}
	courses, err := tracker.Courses()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, c := range courses {
		label := ""
		if c.Imported {
			label = " (importado)"
		}
		fmt.Fprintf(out, "%s: %s%s [%d/%d]\n", c.ID, c.Title, label, c.DoneCount, len(c.Lessons))
		for _, l := range c.LessonStatus {
			mark := "[ ]"
			if l.Done {
				mark = "[x]"
			}
			fmt.Fprintf(out, "  %s %-10s %s\n", mark, l.ID, l.Title)
		}
	}
	return nil
}

func runCoursesComplete(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}
	if err := tracker.CompleteLesson(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Lección completada: %s/%s\n", args[0], args[1])
	return nil
}

func runCoursesImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	importer, err := learn.NewImporter(cfg.DataDir, newLogger())
	if err != nil {
		return err
	}
	course, err := importer.Import(args[0])
	if err != nil {
		return fmt.Errorf("importing course: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.Sprintf("learn.course.imported", course.Title, len(course.Lessons)))
	return nil
}

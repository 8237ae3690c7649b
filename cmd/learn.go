package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nexus-sapiens/nexus/internal/i18n"
	"github.com/nexus-sapiens/nexus/internal/learn"
	"github.com/nexus-sapiens/nexus/internal/progress"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Retos, habilidades y rango del modo aprendizaje",
	RunE:  runLearnOverview,
}

var learnChallengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "Listar los retos y su estado",
	RunE:  runLearnChallenges,
}

var learnCompleteCmd = &cobra.Command{
	Use:   "complete <reto>",
	Short: "Marcar un reto como completado",
	Args:  cobra.ExactArgs(1),
	RunE:  runLearnComplete,
}

var learnSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Mostrar el árbol de habilidades",
	RunE:  runLearnSkills,
}

var learnSkillCmd = &cobra.Command{
	Use:   "skill <habilidad>",
	Short: "Marcar una habilidad desbloqueada como completada",
	Args:  cobra.ExactArgs(1),
	RunE:  runLearnSkill,
}

var learnRankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Mostrar el rango actual y el siguiente",
	RunE:  runLearnRank,
}

func init() {
	learnCmd.AddCommand(learnChallengesCmd, learnCompleteCmd, learnSkillsCmd, learnSkillCmd, learnRankCmd)
	rootCmd.AddCommand(learnCmd)
}

// newTracker builds the learning tracker over the configured data dir.
func newTracker() (*learn.Tracker, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := progress.New(cfg.DataDir, newLogger())
	if err != nil {
		return nil, fmt.Errorf("creating progress store: %w", err)
	}
	return learn.NewTracker(learn.LoadCatalog(cfg.DataDir), store, newLogger())
}

func runLearnOverview(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, i18n.T("learn.progress.title"))
	if err := printStanding(out, tracker); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, i18n.T("learn.challenges.title"))
	return printChallenges(out, tracker)
}

func runLearnChallenges(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}
	return printChallenges(cmd.OutOrStdout(), tracker)
}

func runLearnComplete(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}
	ch, err := tracker.CompleteChallenge(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.Sprintf("learn.challenge.done", ch.Title))
	return printStanding(cmd.OutOrStdout(), tracker)
}

func runLearnSkills(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}
	skills, err := tracker.Skills()
	if err != nil {
		return err
	}
	for _, s := range skills {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-18s %s\n", skillMarker(s), s.ID, s.Name)
	}
	return nil
}

func runLearnSkill(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}
	s, err := tracker.CompleteSkill(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.Sprintf("learn.skill.unlocked", s.Name))
	return nil
}

func runLearnRank(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}
	return printStanding(cmd.OutOrStdout(), tracker)
}

func printChallenges(out io.Writer, tracker *learn.Tracker) error {
	challenges, err := tracker.Challenges()
	if err != nil {
		return err
	}
	for _, c := range challenges {
		mark := "[ ]"
		if c.Done {
			mark = "[x]"
		}
		fmt.Fprintf(out, "%s %-18s %s (%d pts)\n", mark, c.ID, c.Title, c.Points)
	}
	return nil
}

func printStanding(out io.Writer, tracker *learn.Tracker) error {
	st, err := tracker.Standing()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, i18n.Sprintf("learn.rank.current", st.Rank.Name, st.CompletedChallenges))
	if st.NextRank != nil {
		fmt.Fprintf(out, "Siguiente: %s (%d retos)\n", st.NextRank.Name, st.NextRank.MinCompleted)
	}
	fmt.Fprintf(out, "Puntos: %d\n", st.Points)
	return nil
}

func skillMarker(s learn.SkillStatus) string {
	switch {
	case s.Done:
		return "[x]"
	case s.Unlocked:
		return "[ ]"
	default:
		return "[·]"
	}
}

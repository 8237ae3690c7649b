package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexus-sapiens/nexus/internal/provider"
)

var videoCmd = &cobra.Command{
	Use:   "video <descripción>",
	Short: "Generar un vídeo a partir de una descripción",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)
}

// runVideo submits a generation job and reports each poll until the
// job finishes, fails, or the poll budget runs out.
func runVideo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := setup(cfg, newLogger())
	if err != nil {
		return err
	}

	gen := a.Provider.NewVideoGenerator(
		time.Duration(cfg.VideoPollSeconds)*time.Second,
		cfg.VideoMaxPolls,
	)

	out := cmd.OutOrStdout()
	uri, err := gen.Generate(ctx, strings.Join(args, " "), func(_ context.Context, job provider.VideoJob) error {
		switch job.State {
		case provider.VideoSubmitted:
			fmt.Fprintln(out, "Trabajo enviado, esperando...")
		case provider.VideoPolling:
			fmt.Fprintf(out, "Comprobando (%d/%d)...\n", job.Polls, cfg.VideoMaxPolls)
		case provider.VideoFailed:
			fmt.Fprintln(out, "La generación ha fallado.")
		case provider.VideoDone:
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("generating video: %w", err)
	}

	fmt.Fprintf(out, "Vídeo listo: %s\n", uri)
	return nil
}

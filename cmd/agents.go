package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexus-sapiens/nexus/internal/agent"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Listar las personalidades disponibles",
	RunE:  runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	registry := agent.Default()
	def := registry.DefaultAgent()
	for _, a := range registry.List() {
		marker := " "
		if a.ID == def.ID {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s\n", marker, a.ID, a.Description)
	}
	return nil
}

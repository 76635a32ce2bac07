package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/filetree/internal/output"
)

func newProjectsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List generated projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			resolver, err := newResolver(cfg, cliLogger())
			if err != nil {
				return err
			}
			projects, err := resolver.GeneratedProjects(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(projects)
			}

			out := output.New(cmd.OutOrStdout())
			if len(projects) == 0 {
				out.Warningf("No generated projects in %s", cfg.Paths.GeneratedHome)
				return nil
			}
			for _, p := range projects {
				out.Statusf("📁", "%s  %s", p.Name, p.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

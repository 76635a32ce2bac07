package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/filetree/internal/config"
	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/ignore"
	"github.com/Aman-CERP/filetree/internal/output"
	"github.com/Aman-CERP/filetree/internal/tree"
)

type treeOptions struct {
	pathType   string
	ignoreFile string
	matchMode  string
	jsonOutput bool
	previews   bool
}

func newTreeCmd() *cobra.Command {
	var opts treeOptions

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the directory structure",
		Long: `Print the directory structure of a path, excluding entries matched by
its .gitignore. .git and node_modules are always excluded.

With --path-type the roots come from configuration instead of a path:
file_explorer, requirements_definition, babel, or a generated project name.

Output is a styled tree on a terminal and JSON otherwise.`,
		Example: `  # Current directory
  filetree tree

  # Configured UI tree as JSON
  filetree tree --path-type file_explorer --json

  # With a specific ignore file and file previews
  filetree tree ./src --ignore-file ./.gitignore --previews`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return runTree(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.pathType, "path-type", "", "Scan configured roots for this path type instead of a path")
	cmd.Flags().StringVar(&opts.ignoreFile, "ignore-file", "", "Ignore file to apply (default <path>/.gitignore)")
	cmd.Flags().StringVar(&opts.matchMode, "match-mode", "", "Pattern matching: legacy or gitignore (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.previews, "previews", false, "Attach file content previews (JSON only)")

	return cmd
}

func runTree(cmd *cobra.Command, path string, opts treeOptions) error {
	ctx := cmd.Context()
	logger := cliLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.matchMode != "" {
		if opts.matchMode != config.MatchModeLegacy && opts.matchMode != config.MatchModeGitignore {
			return fterrors.ValidationError(fmt.Sprintf("unknown match mode %q (use legacy or gitignore)", opts.matchMode), nil)
		}
		cfg.Scan.MatchMode = opts.matchMode
	}
	if opts.previews {
		cfg.Scan.Previews = true
	}

	var (
		entries []*tree.Entry
		label   string
	)
	if opts.pathType != "" {
		resolver, err := newResolver(cfg, logger)
		if err != nil {
			return err
		}
		entries, err = resolver.Structure(ctx, opts.pathType)
		if err != nil {
			return err
		}
		label = opts.pathType
	} else {
		ignoreFile := opts.ignoreFile
		if ignoreFile == "" {
			ignoreFile = filepath.Join(path, cfg.Paths.IgnoreFileName)
		}
		patterns, err := ignore.Load(ignoreFile)
		if err != nil {
			logger.Warn("ignore file unreadable, continuing without patterns", "path", ignoreFile, "error", err)
			patterns = nil
		}
		builder := tree.NewBuilder(tree.Options{
			Matcher:         ignore.ForMode(cfg.Scan.MatchMode, patterns),
			Logger:          logger,
			Previews:        cfg.Scan.Previews,
			MaxPreviewBytes: cfg.Scan.MaxPreviewBytes,
		})
		entries, err = builder.Scan(ctx, path)
		if err != nil {
			return err
		}
		label = path
	}

	stdout := cmd.OutOrStdout()
	if opts.jsonOutput || !output.IsTTY(stdout) {
		if entries == nil {
			entries = []*tree.Entry{}
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"structure": entries})
	}

	output.New(stdout).Tree(label, entries)
	return nil
}

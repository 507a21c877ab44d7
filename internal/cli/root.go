// Package cli wires configuration, project detection, and the TUI
// program together behind a cobra command.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/theogf/peeplab/internal/config"
	"github.com/theogf/peeplab/internal/git"
	"github.com/theogf/peeplab/internal/gitlab"
	"github.com/theogf/peeplab/internal/ui"
)

var version = "dev"

var opts struct {
	configPath string
	project    string
	branch     string
	allMRs     bool
	refresh    int
}

var rootCmd = &cobra.Command{
	Use:   "peeplab",
	Short: "Watch GitLab merge request pipelines from the terminal",
	Long: `peeplab is a read-only dashboard for the CI state of your open
merge requests: pipelines, jobs, traces, and comments, refreshed on an
interval. Run it inside a clone with a GitLab origin remote and it
finds the project and branch on its own.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/peeplab/config.yml)")
	rootCmd.Flags().StringVarP(&opts.project, "project", "p", "", "project path (namespace/project), overrides auto-detection")
	rootCmd.Flags().StringVarP(&opts.branch, "branch", "b", "", "track MRs from this source branch only")
	rootCmd.Flags().BoolVarP(&opts.allMRs, "all", "a", false, "track all open MRs instead of the current branch")
	rootCmd.Flags().IntVarP(&opts.refresh, "refresh", "r", 0, "refresh interval in seconds")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("peeplab", version)
		},
	})
}

// Execute runs the root command. Configuration problems are the only
// errors that reach the exit path; everything after the program starts
// is reported inside the TUI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "peeplab:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if token := os.Getenv("GITLAB_TOKEN"); token != "" && cfg.Token == "" {
		cfg.Token = token
	}
	if opts.refresh > 0 {
		cfg.RefreshInterval = opts.refresh
	}
	if opts.allMRs {
		cfg.FocusBranch = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w (set token in %s or GITLAB_TOKEN)", err, config.DefaultPath())
	}

	client := gitlab.NewClient(cfg.InstanceURL, cfg.Token)

	projectPath, projectID, err := resolveProject(ctx, cfg, client)
	if err != nil {
		return err
	}

	branch := opts.branch
	if branch == "" && cfg.FocusBranch {
		if current, berr := git.CurrentBranch(); berr == nil {
			branch = current
		} else {
			slog.Debug("branch detection failed", "error", berr)
		}
	}

	app := ui.New(cfg, client, projectID, projectPath, branch)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// resolveProject decides which project to watch: the --project flag,
// then the configured project_id, then the origin remote of the
// current working copy.
func resolveProject(ctx context.Context, cfg *config.Config, client *gitlab.Client) (string, int64, error) {
	if opts.project != "" {
		project, err := client.GetProjectByPath(ctx, opts.project)
		if err != nil {
			return "", 0, fmt.Errorf("resolve project %q: %w", opts.project, err)
		}
		return project.PathWithNamespace, project.ID, nil
	}

	if cfg.ProjectID != 0 {
		return "", cfg.ProjectID, nil
	}

	remote, err := git.DetectRemote()
	if err != nil {
		return "", 0, fmt.Errorf("no project configured and none detected: %w (use --project or set project_id)", err)
	}
	slog.Debug("detected remote", "host", remote.Host, "path", remote.Path())
	project, err := client.GetProjectByPath(ctx, remote.Path())
	if err != nil {
		return "", 0, fmt.Errorf("resolve project %q: %w", remote.Path(), err)
	}
	return project.PathWithNamespace, project.ID, nil
}

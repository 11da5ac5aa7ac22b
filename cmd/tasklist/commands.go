package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/hy4ri/tasklist-tui/internal/config"
	"github.com/hy4ri/tasklist-tui/internal/locale"
	"github.com/hy4ri/tasklist-tui/internal/logging"
	"github.com/hy4ri/tasklist-tui/internal/tui"
	"github.com/hy4ri/tasklist-tui/internal/tui/utils"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	baseURL    string
}

// loadConfig reads the config file and applies the --url override.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.baseURL != "" {
		cfg.Server.BaseURL = o.baseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// setup loads config and builds the client and logger used by a command.
func (o *rootOptions) setup() (*config.Config, *api.Client, *logging.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	client := api.NewClient(cfg.Server.BaseURL)
	client.SetTimeout(cfg.Server.Timeout)
	return cfg, client, logger, nil
}

// New builds the root command. Without a subcommand it runs the TUI.
func New() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tasklist",
		Short: "Terminal task list backed by a REST task collection.",
		Long: `tasklist manages a flat list of tasks stored on a remote HTTP service.

Run without arguments to open the interactive list. Subcommands give
one-shot access to the same operations for scripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/tasklist/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "url", "", "Task collection URL, overrides server.base_url")

	addList(cmd, opts)
	addAdd(cmd, opts)
	addEdit(cmd, opts)
	addDelete(cmd, opts)
	addInit(cmd, opts)
	addVersion(cmd)
	return cmd
}

// runTUI starts the interactive application.
func runTUI(ctx context.Context, opts *rootOptions) error {
	cfg, client, logger, err := opts.setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	loc := locale.New(cfg.UI.Language)
	logger.Info("starting", "version", version, "url", client.BaseURL(), "lang", loc.Tag())

	app := tui.NewApp(ctx, client, cfg, logger, loc)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func addList(topLevel *cobra.Command, opts *rootOptions) {
	var (
		search string
		sorted bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task list.",
		Example: `
tasklist list
tasklist list --search milk --sort
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			tasks, err := client.GetTasks(cmd.Context())
			if err != nil {
				logger.Error("list failed", "err", err, "request_id", api.RequestID(err))
				return err
			}

			loc := locale.New(cfg.UI.Language)
			if !cmd.Flags().Changed("sort") {
				sorted = cfg.UI.SortAlphabetically
			}
			visible := utils.VisibleTasks(tasks, search, sorted, loc.Compare)

			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("ID"), bold.Sprint("TITLE"))
			for _, t := range visible {
				tbl.AddRow(string(t.ID), t.Title)
			}
			tbl.RightAlign(0)

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show tasks whose title contains this phrase.")
	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort by title.")

	topLevel.AddCommand(cmd)
}

func addAdd(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task.",
		Example: `
tasklist add Buy milk
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			title := strings.Join(args, " ")
			task, err := client.CreateTask(cmd.Context(), api.CreateTaskRequest{Title: title})
			if err != nil {
				logger.Error("add failed", "err", err, "request_id", api.RequestID(err))
				return err
			}
			logger.Info("task created", "id", task.ID)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString(string(task.ID)), task.Title)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Replace the title of a task.",
		Example: `
tasklist edit 3 Buy oat milk
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			id := api.TaskID(args[0])
			title := strings.Join(args[1:], " ")
			task, err := client.UpdateTask(cmd.Context(), id, api.UpdateTaskRequest{Title: title})
			if err != nil {
				logger.Error("edit failed", "id", id, "err", err, "request_id", api.RequestID(err))
				return err
			}
			logger.Info("task updated", "id", task.ID)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.YellowString(string(task.ID)), task.Title)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task.",
		Example: `
tasklist delete 3
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			id := api.TaskID(args[0])
			if err := client.DeleteTask(cmd.Context(), id); err != nil {
				logger.Error("delete failed", "id", id, "err", err, "request_id", api.RequestID(err))
				return err
			}
			logger.Info("task deleted", "id", id)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", color.RedString(string(id)))
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addInit(topLevel *cobra.Command, opts *rootOptions) {
	force := false

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a template config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				p, err := config.ConfigPath()
				if err != nil {
					return fmt.Errorf("failed to get config path: %w", err)
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.Template), 0600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config file created: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file.")

	topLevel.AddCommand(cmd)
}

func addVersion(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the tasklist version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tasklist version %s\n", version)
		},
	}

	topLevel.AddCommand(cmd)
}

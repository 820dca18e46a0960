package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studyhub/internal/bootstrap"
	plannerdto "studyhub/internal/modules/planner/dto"
	"studyhub/internal/platform/config"
	"studyhub/internal/platform/logging"
	"studyhub/internal/ui/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir string
	backend string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "studyhub",
		Short:         "Study subjects, focus sessions and task lists in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", defaultDataDir(), "directory holding config, state and logs")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "storage backend: file|sqlite|memory (overrides config)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at the configured level instead of warn")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newSubjectCmd(flags))
	root.AddCommand(newTodoCmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyhub"
	}
	return filepath.Join(home, ".studyhub")
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.dataDir)
	if err != nil {
		return config.Config{}, err
	}
	return cfg.WithBackend(flags.backend)
}

// loadApp wires the application with a logger on stderr. Callers must Close
// the returned app.
func loadApp(cmd *cobra.Command, flags *rootFlags) (*bootstrap.App, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	level := "warn"
	if flags.verbose {
		level = cfg.LogLevel
	}
	return bootstrap.New(cfg, logging.New("studyhub", level, cmd.ErrOrStderr()))
}

func parseID(raw, what string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return v, nil
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the studyhub terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			// The alt screen owns the terminal, so logs go to a file.
			logger, closer, err := logging.NewFile("studyhub", cfg.LogLevel, cfg.LogPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			app, err := bootstrap.New(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()
			logger.Info("tui started", "data_dir", cfg.DataDir, "backend", cfg.Backend)
			return bootstrap.RunTUI(app)
		},
	}
}

func newSubjectCmd(flags *rootFlags) *cobra.Command {
	subject := &cobra.Command{Use: "subject", Short: "Manage study subjects"}

	var difficulty int
	add := &cobra.Command{
		Use:   "add <name> --difficulty <1-10>",
		Short: "Add a subject",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PlannerCLI.AddSubject(context.Background(), strings.Join(args, " "), difficulty)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "subject added: %s (%d) difficulty=%d\n", out.Name, out.ID, out.Difficulty)
			return nil
		},
	}
	add.Flags().IntVar(&difficulty, "difficulty", 5, "difficulty from 1 to 10")

	list := &cobra.Command{
		Use:   "list",
		Short: "List subjects with studied hours",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			subjects, err := app.PlannerCLI.ListSubjects(context.Background())
			if err != nil {
				return err
			}
			if len(subjects) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no subjects")
				return nil
			}
			for _, s := range subjects {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tdifficulty=%d\t%.1fh\topen=%d/%d\n", s.ID, s.Name, s.Difficulty, s.TotalHours, s.OpenTodos, s.TodoCount)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <subject-id>",
		Short: "Delete a subject and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := parseID(args[0], "subject")
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PlannerCLI.DeleteSubject(context.Background(), subjectID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "subject deleted: %d changed=%t\n", subjectID, out.Changed)
			return nil
		},
	}

	subject.AddCommand(add, list, del)
	return subject
}

func newTodoCmd(flags *rootFlags) *cobra.Command {
	todo := &cobra.Command{Use: "todo", Short: "Manage per-subject tasks"}

	add := &cobra.Command{
		Use:   "add <subject-id> <text>",
		Short: "Add a task to a subject",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := parseID(args[0], "subject")
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PlannerCLI.AddTodo(context.Background(), subjectID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task added: %s (%d)\n", out.Text, out.ID)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <subject-id>",
		Short: "List the tasks of a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := parseID(args[0], "subject")
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			todos, err := app.PlannerCLI.ListTodos(context.Background(), subjectID)
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
				return nil
			}
			for _, item := range todos {
				mark := " "
				if item.Completed {
					mark = "x"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t[%s] %s\n", item.ID, mark, item.Text)
			}
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <subject-id> <todo-id>",
		Short: "Flip a task between open and done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTodoRef(cmd, flags, args, "toggled")
		},
	}

	del := &cobra.Command{
		Use:   "delete <subject-id> <todo-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTodoRef(cmd, flags, args, "deleted")
		},
	}

	todo.AddCommand(add, list, toggle, del)
	return todo
}

func runTodoRef(cmd *cobra.Command, flags *rootFlags, args []string, verb string) error {
	subjectID, err := parseID(args[0], "subject")
	if err != nil {
		return err
	}
	todoID, err := parseID(args[1], "todo")
	if err != nil {
		return err
	}
	app, err := loadApp(cmd, flags)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	var changed bool
	switch verb {
	case "toggled":
		out, err := app.PlannerCLI.ToggleTodo(ctx, subjectID, todoID)
		if err != nil {
			return err
		}
		changed = out.Changed
	default:
		out, err := app.PlannerCLI.DeleteTodo(ctx, subjectID, todoID)
		if err != nil {
			return err
		}
		changed = out.Changed
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task %s: %d changed=%t\n", verb, todoID, changed)
	return nil
}

func newSessionCmd(flags *rootFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Timed study sessions"}

	session.AddCommand(&cobra.Command{
		Use:   "run <subject-id>",
		Short: "Run a 25 minute study session in the foreground",
		Long:  "Counts down 25 minutes of study then 5 minutes of break. Press enter during study to complete the session and credit it; ctrl-c cancels without credit.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := parseID(args[0], "subject")
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSession(ctx, app, subjectID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})
	return session
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	var outPath string
	var width int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show hours studied per subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			subjects, err := app.PlannerCLI.ListSubjects(ctx)
			if err != nil {
				return err
			}
			progress, err := app.PlannerCLI.Progress(ctx)
			if err != nil {
				return err
			}

			if outPath == "" {
				rendered, err := report.Render(report.Markdown(subjects, progress), width)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), rendered)
				return nil
			}
			return writeReport(outPath, subjects, progress, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write a markdown report to this file, keeping text outside the generated block")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width for terminal output")
	return cmd
}

func writeReport(path string, subjects []plannerdto.SubjectOutput, progress plannerdto.ProgressOutput, w io.Writer) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	content, err := report.Merge(string(existing), subjects, progress, time.Now())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(w, "report written: %s\n", path)
	return nil
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show storage health and counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			status, err := app.PlannerCLI.Status(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "backend=%s key=%s subjects=%d todos=%d recovered_empty=%t\n",
				app.Config.Backend, app.Config.StorageKey, status.Subjects, status.Todos, status.RecoveredEmpty)
			if status.LastSaveError != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "last_save_error=%q\n", status.LastSaveError)
			}
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"chrono-go/internal/app"
	"chrono-go/internal/chrono"
	"chrono-go/internal/config"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func main() {
	if err := app.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	verbose bool
	noColor bool
)

// newApp finds the repository, reads its config and creates a ChronoApp.
// The caller must defer app.Close().
// operation identifies the CLI command being run and is recorded in the
// journal by mutating commands.
func newApp(operation string) (*app.ChronoApp, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	defaults, err := app.GetDefaults(cwd, false)
	if err != nil {
		return nil, err
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewChronoApp(defaults["root"], cfg, operation, app.Options{
		Console: os.Stderr,
		Verbose: verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// closeApp closes a and reports a close failure unless the command already failed.
func closeApp(a *app.ChronoApp, err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func parseCommitID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid commit id %q", s)
	}
	return id, nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

var rootCmd = &cobra.Command{
	Use:           "chrono",
	Short:         "Local snapshot history for a directory tree",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupColor(noColor)
	},
}

// init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a repository in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		defaults, err := app.GetDefaults(cwd, true)
		if err != nil {
			return err
		}

		cfg := config.NewConfig()
		var passphrase string
		if encrypt {
			cfg.EnableAge()
			passphrase, err = readPassphrase(true)
			if err != nil {
				return err
			}
		}

		if err := app.Initialize(defaults["root"], defaults["config_path"], cfg, passphrase); err != nil {
			return err
		}

		fmt.Printf("Initialized chrono repository in %s\n", defaults["repo_dir"])
		if encrypt {
			fmt.Println("Snapshots are encrypted with age.")
		}
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show changes since the last commit",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("status")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changes, err := a.Status()
		if err != nil {
			return err
		}
		if !changes.HasChanges() {
			fmt.Println("Working tree clean.")
			return nil
		}
		for _, c := range changes.Changes() {
			fmt.Printf("%s %s\n", statusMark(string(c.Status)), c.Path)
		}
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d added, %d modified, %d deleted",
			len(changes.Added), len(changes.Modified), len(changes.Deleted))))
		return nil
	},
}

// commit command
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the current state of the tree",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		message, _ := cmd.Flags().GetString("message")

		a, err := newApp("commit")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		result, err := a.Commit(message)
		if errors.Is(err, chrono.ErrNoChanges) {
			fmt.Println("Nothing to commit.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Commit %s: %d added, %d modified, %d deleted\n",
			idStyle.Render(strconv.FormatInt(result.Commit.ID, 10)),
			len(result.Changes.Added), len(result.Changes.Modified), len(result.Changes.Deleted))
		for _, p := range result.MissingBodies {
			fmt.Println(warnStyle.Render("warning: no snapshot stored for " + p))
		}
		return nil
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List commits, newest first",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("log")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		entries, err := a.Log(limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No commits.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %s  %s  %s\n",
				idStyle.Render(fmt.Sprintf("%4d", e.Commit.ID)),
				e.Commit.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				dimStyle.Render(fmt.Sprintf("+%d ~%d -%d", e.Added, e.Modified, e.Deleted)),
				e.Commit.Message,
			)
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one commit and its changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseCommitID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("show")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		details, err := a.Show(id)
		if err != nil {
			return err
		}

		fmt.Printf("commit %s\n", idStyle.Render(strconv.FormatInt(details.Commit.ID, 10)))
		fmt.Printf("Date:  %s (%s)\n",
			details.Commit.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			humanize.Time(details.Commit.CreatedAt))
		fmt.Printf("\n    %s\n\n", details.Commit.Message)
		for _, c := range details.Changes {
			fmt.Printf("%s %s  %s\n", statusMark(string(c.Status)), dimStyle.Render(fmt.Sprintf("%-12s", shortDigest(c.Digest))), c.Path)
		}
		return nil
	},
}

// revert command
var revertCmd = &cobra.Command{
	Use:   "revert ID",
	Short: "Restore the changes recorded by a commit",
	Long: "Restore the files a commit added or modified to their committed content and\n" +
		"remove the files it deleted. A safety snapshot of the tree is taken first.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseCommitID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("revert")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		var passphrase string
		if a.NeedsPassphrase() {
			passphrase, err = readPassphrase(false)
			if err != nil {
				return err
			}
		}

		result, err := a.Revert(id, passphrase)
		if err != nil {
			return err
		}

		fmt.Printf("Reverted commit %s (safety snapshot %s)\n",
			idStyle.Render(strconv.FormatInt(result.Commit.ID, 10)), result.SafetySnapshot)
		for _, p := range result.Restored {
			fmt.Printf("%s %s\n", addedStyle.Render("restored"), p)
		}
		for _, p := range result.Removed {
			fmt.Printf("%s %s\n", deleteStyle.Render("removed "), p)
		}
		for _, p := range result.Missing {
			fmt.Printf("%s %s\n", warnStyle.Render("missing "), p)
		}
		return nil
	},
}

// files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List tracked files",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		all, _ := cmd.Flags().GetBool("all")

		a, err := newApp("files")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		files, err := a.Files()
		if err != nil {
			return err
		}

		shown := 0
		for _, f := range files {
			if f.Deleted && !all {
				continue
			}
			mark := " "
			if f.Deleted {
				mark = deleteStyle.Render("D")
			}
			fmt.Printf("%s %s  %s\n", mark, dimStyle.Render(shortDigest(f.Digest)), f.Path)
			shown++
		}
		if shown == 0 {
			fmt.Println("No tracked files.")
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show repository statistics",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("stats")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		s, err := a.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("Commits:          %s\n", humanize.Comma(s.Commits))
		fmt.Printf("Tracked files:    %s\n", humanize.Comma(s.TrackedFiles))
		fmt.Printf("Deleted files:    %s\n", humanize.Comma(s.DeletedFiles))
		fmt.Printf("Database:         %s\n", humanize.IBytes(uint64(s.DatabaseBytes)))
		fmt.Printf("Snapshots:        %s\n", humanize.IBytes(uint64(s.BodyBytes)))
		fmt.Printf("Safety snapshots: %d (%s)\n", s.SafetySnapshots, humanize.IBytes(uint64(s.SafetyBytes)))
		return nil
	},
}

// cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Compact the database and prune old snapshots",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("cleanup")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		r, err := a.Cleanup()
		if err != nil {
			return err
		}

		fmt.Printf("Database: %s -> %s\n",
			humanize.IBytes(uint64(r.DatabaseBytesBefore)), humanize.IBytes(uint64(r.DatabaseBytesAfter)))
		fmt.Printf("Pruned %d safety snapshot(s), %d orphaned snapshot set(s)\n",
			len(r.PrunedSafety), len(r.OrphanedBodySets))
		return nil
	},
}

// reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all commits and snapshots",
	Long:  "Delete all commits, tracked state and snapshots. The working tree and the\noperation history are left alone.",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		confirmed, _ := cmd.Flags().GetBool("confirm")
		if !confirmed {
			confirmed, err = confirmReset()
			if err != nil {
				return err
			}
		}

		a, err := newApp("reset")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		if err := a.Reset(confirmed); err != nil {
			if errors.Is(err, chrono.ErrResetNotConfirmed) {
				return fmt.Errorf("%w (pass --confirm)", err)
			}
			return err
		}
		fmt.Println("Repository reset.")
		return nil
	},
}

// amend command
var amendCmd = &cobra.Command{
	Use:   "amend ID",
	Short: "Replace a commit message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		message, _ := cmd.Flags().GetString("message")
		id, err := parseCommitID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("amend")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		if err := a.Amend(id, message); err != nil {
			return err
		}
		fmt.Printf("Commit %s renamed.\n", idStyle.Render(strconv.FormatInt(id, 10)))
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("history")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-15s  %s  %-10s  %s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				dimStyle.Render(op.Parameters),
			)
		}
		return nil
	},
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		defaults, err := app.GetDefaults(cwd, false)
		if err != nil {
			return err
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		before, after, err := app.MigrateDatabaseVersions(cfg.Resolve(defaults["repo_dir"]).Database)
		if err != nil {
			return err
		}
		if before == after {
			fmt.Printf("Database schema is up to date (version %d).\n", after)
			return nil
		}
		fmt.Printf("Migrated database schema from version %d to %d.\n", before, after)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		defaults, err := app.GetDefaults(cwd, false)
		if err != nil {
			return err
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Println(dimStyle.Render("# " + defaults["config_path"]))
		m := &config.Manager{}
		return m.Write(os.Stdout, cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	initCmd.Flags().Bool("encrypt", false, "Encrypt snapshots with age (prompts for a passphrase, or reads "+PassphraseEnv+")")
	commitCmd.Flags().StringP("message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")
	logCmd.Flags().IntP("limit", "n", 0, "Maximum number of commits to show (0 for all)")
	filesCmd.Flags().BoolP("all", "a", false, "Include deleted files")
	resetCmd.Flags().Bool("confirm", false, "Skip the confirmation prompt")
	amendCmd.Flags().StringP("message", "m", "", "New commit message")
	amendCmd.MarkFlagRequired("message")
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(revertCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(amendCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)
}


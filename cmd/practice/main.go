// Command practice runs a practice session against the drillroom server in
// the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drillroom/backend/internal/client"
	practicesession "github.com/drillroom/backend/internal/domain/practice_session"
	"github.com/drillroom/backend/internal/infrastructure/config"
	"github.com/drillroom/backend/internal/tui"
)

func main() {
	project := flag.String("project", "", "project ID to practice")
	mode := flag.String("mode", string(practicesession.ModeSequential), "sequential, random or memorize")
	list := flag.Bool("list", false, "list projects and exit")
	flag.Parse()

	cfg := config.LoadClient()

	// stdout belongs to the terminal UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	c := client.New(cfg.ServerURL, cfg.Token, cfg.RequestTimeout, logger)

	if *list {
		if err := printProjects(ctx, c); err != nil {
			fmt.Fprintf(os.Stderr, "list projects: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, c, logger, *project, *mode); err != nil {
		logger.Error("practice failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, logger *slog.Logger, project, rawMode string) error {
	if project == "" {
		return fmt.Errorf("-project is required (see -list)")
	}
	mode, err := practicesession.ParseMode(rawMode)
	if err != nil {
		return err
	}

	payload, err := c.LoadPractice(ctx, project, mode)
	if err != nil {
		return fmt.Errorf("load practice: %w", err)
	}

	cfg := payload.Config()
	cfg.Logger = logger
	session, err := practicesession.New(cfg, c)
	if err != nil {
		return err
	}
	logger.Info("practice started", "project", project, "mode", mode, "questions", len(cfg.Questions))

	_, err = tea.NewProgram(tui.New(ctx, session, c), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func printProjects(ctx context.Context, c *client.Client) error {
	l, err := c.Projects(ctx)
	if err != nil {
		return err
	}

	line := func(p client.Project) {
		fmt.Printf("  %-30s %s  %d/%d answered, %d correct\n", p.ID, p.DisplayName, p.Answered, p.Total, p.Correct)
	}
	for _, f := range l.Folders {
		fmt.Println(f.Name)
		for _, p := range f.Projects {
			line(p)
		}
	}
	if len(l.Projects) > 0 {
		fmt.Println("(no folder)")
		for _, p := range l.Projects {
			line(p)
		}
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/digitalpulse"
	"github.com/poiesic/digitalpulse/analysis"
	"github.com/poiesic/digitalpulse/annotate"
	"github.com/poiesic/digitalpulse/config"
)

// workspaceOptions lets tests inject model doubles.
var workspaceOptions []digitalpulse.Option

func openWorkspace(c *cli.Context) (*digitalpulse.Workspace, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	ws, err := digitalpulse.Open(c.Context, cfg, workspaceOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return ws, nil
}

func addOpinionCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	id, err := ws.Store().AddOpinion(c.Context, c.String("text"), c.String("topic"), c.String("type"), c.String("effectiveness"))
	if err != nil {
		return fmt.Errorf("failed to add opinion: %w", err)
	}
	fmt.Fprintln(c.App.Writer, id)
	return nil
}

func addTopicCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	key, err := ws.Store().AddTopic(c.Context, c.String("text"), c.String("type"), c.String("effectiveness"))
	if err != nil {
		return fmt.Errorf("failed to add topic: %w", err)
	}
	fmt.Fprintln(c.App.Writer, key)
	return nil
}

func addConclusionCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	id, err := ws.Store().AddConclusion(c.Context, c.String("topic"), c.String("text"), c.String("type"), c.String("effectiveness"))
	if err != nil {
		return fmt.Errorf("failed to add conclusion: %w", err)
	}
	fmt.Fprintln(c.App.Writer, id)
	return nil
}

func topicsCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	topics, err := ws.Store().Topics(c.Context)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		fmt.Fprintln(c.App.Writer, "No topics found.")
		return nil
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tTEXT")
	for _, t := range topics {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Key(), t.Type, t.Text)
	}
	return tw.Flush()
}

func analyzeCommand(c *cli.Context) error {
	text, key := c.String("text"), c.String("topic")
	switch {
	case text == "" && key == "":
		return errors.New("one of --text or --topic is required")
	case text != "" && key != "":
		return errors.New("--text and --topic are mutually exclusive")
	case c.Bool("save") && key == "":
		return errors.New("--save requires --topic")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	var report *analysis.Report
	if key != "" {
		var opts []analysis.TopicOption
		if c.Bool("save") {
			opts = append(opts, analysis.SaveConclusion())
		}
		report, err = ws.Analyzer().AnalyzeTopic(c.Context, key, opts...)
	} else {
		report, err = ws.Analyzer().AnalyzeText(c.Context, text)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return report.Render(c.App.Writer)
}

func annotateCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	cfg := &annotate.Config{
		Threshold:      ws.Config().Analysis.Threshold,
		Limit:          c.Int("limit"),
		ReportInterval: c.Int("report-interval"),
	}
	if cfg.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	annotator, err := ws.NewAnnotator(cfg, annotate.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}

	summary, err := annotator.Run(c.Context, c.String("topic"))
	if summary != nil {
		fmt.Fprintf(c.App.Writer, "Considered: %d\nMatched: %d\nUpdated: %d\n", summary.Considered, summary.Matched, summary.Updated)
	}
	if err != nil {
		return fmt.Errorf("annotation failed: %w", err)
	}
	return nil
}

func updateOpinionCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	id := c.String("id")
	ok, err := ws.Store().UpdateOpinionMetadata(c.Context, id, c.String("topic"), c.String("type"), c.String("effectiveness"))
	if err != nil {
		return fmt.Errorf("failed to update opinion: %w", err)
	}
	if !ok {
		return fmt.Errorf("opinion %q not found", id)
	}
	fmt.Fprintf(c.App.Writer, "Updated opinion %s\n", id)
	return nil
}

func statsCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	stats, err := ws.Analyzer().Stats(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Topics: %d\nOpinions: %d\nConclusions: %d\n", stats.Topics, stats.Opinions, stats.Conclusions)
	return nil
}

func serveCommand(c *cli.Context) error {
	if slog.Default().Enabled(c.Context, slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	srv, err := ws.NewServer()
	if err != nil {
		return err
	}
	defer srv.Close()

	addr := c.String("addr")
	if addr == "" {
		addr = ws.Config().Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}

func configInitCommand(c *cli.Context) error {
	path := c.String("path")
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/console"
	"github.com/vovakirdan/starshot/internal/contrib"
	"github.com/vovakirdan/starshot/internal/output"
	"github.com/vovakirdan/starshot/internal/storage"
)

var (
	flagRawInput  string
	flagRawOutput string
	flagOutput    string
	flagPolicy    string
	flagFPS       int
	flagMaxFrames int
	flagWatermark string
	flagDataURLTo string
)

var generateCmd = &cobra.Command{
	Use:   "generate <username>",
	Short: "Render an animation for a GitHub user",
	Long: `Fetch the user's contribution graph and render a space shooter run
over it. The output format follows the file extension (.svg or .gif).

Set GH_TOKEN (or GITHUB_TOKEN) to fetch the graph from the GitHub API;
--raw-input skips the fetch and reads a previously saved graph instead.

Examples:
  starshot generate torvalds
  starshot generate torvalds --output torvalds.gif --policy random
  starshot generate torvalds --raw-output graph.json
  starshot generate torvalds --raw-input graph.json --fps 30
  starshot generate torvalds --output run.gif --dataurl-to README.md`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagRawInput, "raw-input", "", "Read the contribution graph from a JSON file instead of the API")
	generateCmd.Flags().StringVar(&flagRawOutput, "raw-output", "", "Save the fetched contribution graph to a JSON file")
	generateCmd.Flags().StringVar(&flagOutput, "output", "shooter.svg", "Output file (.svg or .gif)")
	generateCmd.Flags().StringVar(&flagPolicy, "policy", "random", "Targeting policy (see 'starshot policies')")
	generateCmd.Flags().IntVar(&flagFPS, "fps", 0, "Frames per second (0 = configured value)")
	generateCmd.Flags().IntVar(&flagMaxFrames, "max-frames", 0, "Stop after this many frames (0 = full run)")
	generateCmd.Flags().StringVar(&flagWatermark, "watermark", "starshot", "Watermark text (empty disables)")
	generateCmd.Flags().StringVar(&flagDataURLTo, "dataurl-to", "", "Also inject a GIF data URL img tag into this file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	username := args[0]

	format, err := output.FormatForPath(flagOutput)
	if err != nil {
		return err
	}

	grid, err := loadGrid(cmd.Context(), username)
	if err != nil {
		return err
	}
	if flagRawOutput != "" {
		if err := grid.SaveFile(flagRawOutput); err != nil {
			return err
		}
		logger.Info("saved contribution graph", "path", flagRawOutput)
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}
	if flagFPS > 0 {
		cfg.Simulation.FPS = flagFPS
	}

	req := output.Request{
		Grid:      grid,
		Policy:    flagPolicy,
		Config:    cfg,
		Watermark: flagWatermark,
		MaxFrames: flagMaxFrames,
	}

	started := time.Now()
	res, err := output.Render(req, format)
	if err != nil {
		return err
	}
	logger.Info("render complete",
		"user", username,
		"policy", flagPolicy,
		"frames", res.Frames,
		"score", res.Score,
		"took", time.Since(started).Round(time.Millisecond))

	if err := os.WriteFile(flagOutput, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flagOutput, err)
	}

	fmt.Print(console.GridPreview(grid, cfg.Theme))
	fmt.Print(console.RunSummary(flagPolicy, string(res.Format), res.Frames, res.Score, len(res.Data), res.Seed))

	if flagDataURLTo != "" {
		gifData := res.Data
		if res.Format != output.FormatGIF {
			gifRes, err := output.Render(req, output.FormatGIF)
			if err != nil {
				return err
			}
			gifData = gifRes.Data
		}
		if err := output.WriteDataURLFile(flagDataURLTo, output.DataURL(gifData)); err != nil {
			return err
		}
		logger.Info("injected data URL", "path", flagDataURLTo)
	}

	recordRender(username, cfg.Simulation.FPS, res)
	return nil
}

// loadGrid reads the graph from --raw-input when given, otherwise fetches
// it from the GitHub GraphQL API.
func loadGrid(ctx context.Context, username string) (contrib.Grid, error) {
	if flagRawInput != "" {
		return contrib.LoadFile(flagRawInput)
	}

	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return contrib.Grid{}, fmt.Errorf("no GitHub token: set GH_TOKEN or use --raw-input")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return contrib.NewClient(token).Fetch(fetchCtx, username)
}

// recordRender appends to the history database. History is best effort;
// a failure never discards an already written animation.
func recordRender(username string, fps int, res output.Result) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveRender(storage.RenderRecord{
		Username: username,
		Policy:   flagPolicy,
		FPS:      fps,
		Format:   string(res.Format),
		Frames:   res.Frames,
		Bytes:    len(res.Data),
		Score:    res.Score,
		Seed:     res.Seed,
	}); err != nil {
		logger.Warn("could not record render", "err", err)
	}
}

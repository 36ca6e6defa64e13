package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/server"
)

var (
	flagAddr           string
	flagServeWatermark string
	flagServeMaxFrames int
	flagRatePerSec     float64
	flagRateBurst      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP render service",
	Long: `Start an HTTP server that renders animations on demand.

Routes:
  GET /api/generate?username=<user>[&format=svg|gif][&policy=<name>][&fps=<n>][&max_frames=<n>]
  GET /healthz
  GET /metrics

Requires GH_TOKEN (or GITHUB_TOKEN) for contribution graph fetches.

Examples:
  starshot serve
  starshot serve --addr :9000 --rate 2 --burst 5`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address (host:port)")
	serveCmd.Flags().StringVar(&flagServeWatermark, "watermark", "starshot", "Watermark text for rendered animations")
	serveCmd.Flags().IntVar(&flagServeMaxFrames, "max-frames", 2000, "Per-request frame cap")
	serveCmd.Flags().Float64Var(&flagRatePerSec, "rate", 1, "Sustained renders per second")
	serveCmd.Flags().IntVar(&flagRateBurst, "burst", 3, "Render burst size")
}

func runServe(cmd *cobra.Command, args []string) error {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no GitHub token: set GH_TOKEN or GITHUB_TOKEN")
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Config:     cfg,
		Token:      token,
		Watermark:  flagServeWatermark,
		MaxFrames:  flagServeMaxFrames,
		RatePerSec: flagRatePerSec,
		RateBurst:  flagRateBurst,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:              flagAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("listening", "addr", flagAddr)
	return httpServer.ListenAndServe()
}

package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
)

func testServer(t *testing.T, ratePerSec float64, burst int) *Server {
	t.Helper()
	return New(Options{
		Config:     config.Default(),
		Watermark:  "starshot demo",
		MaxFrames:  30,
		RatePerSec: ratePerSec,
		RateBurst:  burst,
		Fetch: func(_ context.Context, username string) (contrib.Grid, error) {
			if username == "ghost" {
				return contrib.Grid{}, fmt.Errorf("no such user")
			}
			return contrib.FromLevels(username, [][]int{{1}, {2}}), nil
		},
	})
}

func TestGenerateSVG(t *testing.T) {
	srv := httptest.NewServer(testServer(t, 100, 100).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/generate?username=alice")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
}

func TestGenerateGIF(t *testing.T) {
	srv := httptest.NewServer(testServer(t, 100, 100).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/generate?username=alice&format=gif&policy=column")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/gif" {
		t.Errorf("content type = %q", ct)
	}
}

func TestGenerateValidation(t *testing.T) {
	srv := httptest.NewServer(testServer(t, 100, 100).Router())
	defer srv.Close()

	cases := []string{
		"/api/generate",
		"/api/generate?username=alice&format=webp",
		"/api/generate?username=alice&fps=999",
		"/api/generate?username=alice&policy=nope",
	}
	for _, path := range cases {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestGenerateFetchFailure(t *testing.T) {
	srv := httptest.NewServer(testServer(t, 100, 100).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/generate?username=ghost")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestRateLimiting(t *testing.T) {
	srv := httptest.NewServer(testServer(t, 0.001, 1).Router())
	defer srv.Close()

	first, err := http.Get(srv.URL + "/api/generate?username=alice&max_frames=2")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	first.Body.Close()
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first request status = %d", first.StatusCode)
	}

	second, err := http.Get(srv.URL + "/api/generate?username=alice&max_frames=2")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	second.Body.Close()
	if second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", second.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	server := testServer(t, 100, 100)
	srv := httptest.NewServer(server.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	// Render once so the counter exists, then check it surfaces.
	render, err := http.Get(srv.URL + "/api/generate?username=alice&max_frames=2")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	render.Body.Close()

	metrics, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer metrics.Body.Close()
	body, err := io.ReadAll(metrics.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(body), "starshot_renders_total") {
		t.Error("render counter missing from metrics output")
	}
}

package contrib

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestFromLevels(t *testing.T) {
	g := FromLevels("alice", [][]int{{1, 0, 2}, {0, 4, 0}})
	if g.Username != "alice" {
		t.Errorf("username = %q", g.Username)
	}
	if g.TotalContributions != 7 {
		t.Errorf("total = %d, want 7", g.TotalContributions)
	}
	if len(g.Weeks) != 2 || len(g.Weeks[0].Days) != 3 {
		t.Fatalf("shape wrong: %+v", g)
	}
	if g.Weeks[1].Days[1].Level != 4 {
		t.Errorf("level = %d, want 4", g.Weeks[1].Days[1].Level)
	}
}

func TestValidate(t *testing.T) {
	if err := FromLevels("a", [][]int{{1, 2}}).Validate(); err != nil {
		t.Errorf("valid grid rejected: %v", err)
	}
	if err := FromLevels("a", [][]int{{-1}}).Validate(); err == nil {
		t.Error("negative level accepted")
	}

	long := Grid{Weeks: []Week{{Days: make([]Day, NumDays+1)}}}
	if err := long.Validate(); err == nil {
		t.Error("oversized week accepted")
	}
}

func TestLevels(t *testing.T) {
	levels := [][]int{{1, 0}, {3, 4}}
	got := FromLevels("a", levels).Levels()
	for wi := range levels {
		for di := range levels[wi] {
			if got[wi][di] != levels[wi][di] {
				t.Fatalf("Levels() = %v, want %v", got, levels)
			}
		}
	}
}

func TestMaxLevel(t *testing.T) {
	level, week, day := FromLevels("a", [][]int{{0, 2}, {4, 4}}).MaxLevel()
	if level != 4 || week != 1 || day != 0 {
		t.Errorf("MaxLevel() = (%d, %d, %d), want (4, 1, 0)", level, week, day)
	}

	level, week, day = Grid{}.MaxLevel()
	if level != -1 || week != -1 || day != -1 {
		t.Errorf("empty grid MaxLevel() = (%d, %d, %d)", level, week, day)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	g := FromLevels("alice", [][]int{{1, 0, 3}, {0, 2, 0}})
	if err := g.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Username != g.Username || loaded.TotalContributions != g.TotalContributions {
		t.Errorf("metadata lost: %+v", loaded)
	}
	if len(loaded.Weeks) != len(g.Weeks) {
		t.Fatalf("week count = %d, want %d", len(loaded.Weeks), len(g.Weeks))
	}
}

func TestLoadFileRejectsBadData(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLevelFromName(t *testing.T) {
	cases := map[string]int{
		"NONE":            0,
		"FIRST_QUARTILE":  1,
		"SECOND_QUARTILE": 2,
		"THIRD_QUARTILE":  3,
		"FOURTH_QUARTILE": 4,
		"whatever":        0,
	}
	for name, want := range cases {
		if got := levelFromName(name); got != want {
			t.Errorf("levelFromName(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "bearer token123" {
			t.Errorf("auth header = %q", got)
		}
		fmt.Fprint(w, `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{
			"totalContributions":5,
			"weeks":[{"contributionDays":[
				{"date":"2026-08-24","contributionLevel":"FIRST_QUARTILE"},
				{"date":"2026-08-25","contributionLevel":"FOURTH_QUARTILE"}
			]}]}}}}}`)
	}))
	defer srv.Close()

	c := NewClient("token123")
	c.endpoint = srv.URL

	g, err := c.Fetch(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if g.TotalContributions != 5 {
		t.Errorf("total = %d, want 5", g.TotalContributions)
	}
	if g.Weeks[0].Days[1].Level != 4 {
		t.Errorf("level = %d, want 4", g.Weeks[0].Days[1].Level)
	}
}

func TestClientFetchUserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":{"user":null}}`)
	}))
	defer srv.Close()

	c := NewClient("token123")
	c.endpoint = srv.URL
	if _, err := c.Fetch(context.Background(), "ghost"); err == nil {
		t.Fatal("expected user-not-found error")
	}
}

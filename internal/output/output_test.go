package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
)

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		path string
		want Format
		ok   bool
	}{
		{"out.svg", FormatSVG, true},
		{"out.SVG", FormatSVG, true},
		{"dir/animation.gif", FormatGIF, true},
		{"out.webp", "", false},
		{"out", "", false},
	}
	for _, c := range cases {
		got, err := FormatForPath(c.path)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("FormatForPath(%q) = %v, %v; want %v", c.path, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("FormatForPath(%q) expected error", c.path)
		}
	}
}

func testRequest(levels [][]int) Request {
	return Request{
		Grid:      contrib.FromLevels("test", levels),
		Policy:    "column",
		Config:    config.Default(),
		Watermark: "starshot demo",
		MaxFrames: 40,
	}
}

func TestRenderSVG(t *testing.T) {
	res, err := Render(testRequest([][]int{{1}, {2}}), FormatSVG)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(res.Data, []byte("<svg")) {
		t.Fatal("missing svg root element")
	}
	if res.Frames == 0 || res.Seed == 0 {
		t.Fatalf("statistics not filled: %+v", res)
	}
}

func TestRenderGIF(t *testing.T) {
	res, err := Render(testRequest([][]int{{1}}), FormatGIF)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(res.Data, []byte("GIF89a")) {
		t.Fatal("output is not a GIF stream")
	}
}

func TestRenderRejectsUnknownPolicy(t *testing.T) {
	req := testRequest([][]int{{1}})
	req.Policy = "nope"
	if _, err := Render(req, FormatSVG); err == nil {
		t.Fatal("expected unknown policy error")
	}
}

func TestDataURL(t *testing.T) {
	if got := DataURL(nil); got != "" {
		t.Errorf("empty input should yield empty URL, got %q", got)
	}
	url := DataURL([]byte("GIF89a"))
	if !strings.HasPrefix(url, "data:image/gif;base64,") {
		t.Errorf("unexpected prefix: %q", url)
	}
}

func TestWriteDataURLFileCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.md")
	if err := WriteDataURLFile(path, "data:image/gif;base64,AAAA"); err != nil {
		t.Fatalf("WriteDataURLFile: %v", err)
	}
	raw, _ := os.ReadFile(path)
	want := `<img src="data:image/gif;base64,AAAA" />` + "\n"
	if string(raw) != want {
		t.Fatalf("file content = %q, want %q", raw, want)
	}
}

func TestWriteDataURLFileInjectsAtMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	initial := "# hi\n<!-- space-shooter -->\nfooter\n"
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteDataURLFile(path, "data:image/gif;base64,BBBB"); err != nil {
		t.Fatalf("WriteDataURLFile: %v", err)
	}
	raw, _ := os.ReadFile(path)
	got := string(raw)
	if strings.Contains(got, injectionMarker) {
		t.Error("marker line not replaced")
	}
	if !strings.Contains(got, "# hi\n") || !strings.Contains(got, "footer\n") {
		t.Errorf("surrounding lines damaged: %q", got)
	}
	if !strings.Contains(got, `<img src="data:image/gif;base64,BBBB" />`) {
		t.Errorf("tag missing: %q", got)
	}
}

func TestWriteDataURLFileAppendsWithoutMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(path, []byte("no trailing newline"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteDataURLFile(path, "data:image/gif;base64,CCCC"); err != nil {
		t.Fatalf("WriteDataURLFile: %v", err)
	}
	raw, _ := os.ReadFile(path)
	want := "no trailing newline\n" + `<img src="data:image/gif;base64,CCCC" />` + "\n"
	if string(raw) != want {
		t.Fatalf("file content = %q, want %q", raw, want)
	}
}

package output

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// Marker that selects the injection target line in an existing file.
const injectionMarker = "<!-- space-shooter -->"

// DataURL wraps encoded GIF bytes in a base64 data URL. Empty input maps
// to an empty URL so callers can still write a placeholder tag.
func DataURL(gifData []byte) string {
	if len(gifData) == 0 {
		return ""
	}
	return "data:image/gif;base64," + base64.StdEncoding.EncodeToString(gifData)
}

// WriteDataURLFile places an HTML img tag holding the data URL into the
// file at path. A missing file is created with just the tag. In an
// existing file the line carrying the injection marker is replaced, or
// the tag is appended when no marker is present.
func WriteDataURLFile(path, dataURL string) error {
	imgTag := fmt.Sprintf(`<img src="%s" />`, dataURL)

	// Exclusive create first so a fresh target never races a reader.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		_, werr := f.WriteString(imgTag + "\n")
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		return werr
	}
	if !os.IsExist(err) {
		return fmt.Errorf("output: create %s: %w", path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("output: read %s: %w", path, err)
	}
	content := string(raw)

	if strings.Contains(content, injectionMarker) {
		lines := strings.SplitAfter(content, "\n")
		for i, line := range lines {
			if strings.Contains(line, injectionMarker) {
				lines[i] = imgTag + "\n"
				break
			}
		}
		content = strings.Join(lines, "")
	} else {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += imgTag + "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

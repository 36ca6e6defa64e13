package contrib

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a previously saved grid from a JSON file.
func LoadFile(path string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, fmt.Errorf("contrib: failed to read %s: %w", path, err)
	}
	var g Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return Grid{}, fmt.Errorf("contrib: invalid JSON in %s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// SaveFile writes the grid to a JSON file, useful for replaying a render
// without spending API rate limit.
func (g Grid) SaveFile(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("contrib: failed to encode grid: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("contrib: failed to write %s: %w", path, err)
	}
	return nil
}

// Package contrib models the GitHub contribution grid that seeds the game
// world, and provides loaders for it (GitHub GraphQL API or raw JSON files).
package contrib

import (
	"fmt"
)

const (
	// NumWeeks is the width of a full contribution graph.
	NumWeeks = 52
	// NumDays is the number of days per week column.
	NumDays = 7
)

// Day is a single contribution cell.
type Day struct {
	Level int    `json:"level"`
	Date  string `json:"date,omitempty"`
}

// Week is one ordered column of seven days.
type Week struct {
	Days []Day `json:"days"`
}

// Grid is the immutable contribution data a simulation run is built from.
type Grid struct {
	Username           string `json:"username,omitempty"`
	TotalContributions int    `json:"total_contributions"`
	Weeks              []Week `json:"weeks"`
}

// Validate reports the first malformed cell found. Negative levels are a
// precondition violation: the engine derives enemy health directly from them.
func (g Grid) Validate() error {
	for wi, week := range g.Weeks {
		if len(week.Days) > NumDays {
			return fmt.Errorf("contrib: week %d has %d days, want at most %d", wi, len(week.Days), NumDays)
		}
		for di, day := range week.Days {
			if day.Level < 0 {
				return fmt.Errorf("contrib: negative level %d at week %d day %d", day.Level, wi, di)
			}
		}
	}
	return nil
}

// Levels returns the grid as plain [week][day] level values.
func (g Grid) Levels() [][]int {
	out := make([][]int, len(g.Weeks))
	for wi, week := range g.Weeks {
		out[wi] = make([]int, len(week.Days))
		for di, day := range week.Days {
			out[wi][di] = day.Level
		}
	}
	return out
}

// MaxLevel returns the highest contribution level in the grid, and the
// week/day position of its first occurrence scanning weeks then days.
func (g Grid) MaxLevel() (level, week, day int) {
	week, day = -1, -1
	for wi, w := range g.Weeks {
		for di, d := range w.Days {
			if d.Level > level {
				level = d.Level
				week, day = wi, di
			}
		}
	}
	return level, week, day
}

// FromLevels builds a grid from raw [week][day] level values.
// Used by tests and by callers that shape data themselves.
func FromLevels(username string, levels [][]int) Grid {
	g := Grid{Username: username, Weeks: make([]Week, len(levels))}
	for wi, week := range levels {
		days := make([]Day, len(week))
		for di, level := range week {
			days[di] = Day{Level: level}
			g.TotalContributions += level
		}
		g.Weeks[wi] = Week{Days: days}
	}
	return g
}

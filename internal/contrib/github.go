package contrib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const graphqlEndpoint = "https://api.github.com/graphql"

const contributionsQuery = `query($login: String!) {
  user(login: $login) {
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionLevel
          }
        }
      }
    }
  }
}`

// Client fetches contribution calendars from the GitHub GraphQL API.
type Client struct {
	token    string
	endpoint string
	http     *http.Client
}

// NewClient creates a client authenticated with a personal access token.
func NewClient(token string) *Client {
	return &Client{
		token:    token,
		endpoint: graphqlEndpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the contribution grid for a GitHub username.
func (c *Client) Fetch(ctx context.Context, username string) (Grid, error) {
	body, err := json.Marshal(map[string]any{
		"query":     contributionsQuery,
		"variables": map[string]string{"login": username},
	})
	if err != nil {
		return Grid{}, fmt.Errorf("contrib: failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Grid{}, fmt.Errorf("contrib: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Grid{}, fmt.Errorf("contrib: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Grid{}, fmt.Errorf("contrib: GitHub API returned %s: %s", resp.Status, bytes.TrimSpace(payload))
	}

	var parsed struct {
		Data struct {
			User *struct {
				ContributionsCollection struct {
					ContributionCalendar struct {
						TotalContributions int `json:"totalContributions"`
						Weeks              []struct {
							ContributionDays []struct {
								Date              string `json:"date"`
								ContributionLevel string `json:"contributionLevel"`
							} `json:"contributionDays"`
						} `json:"weeks"`
					} `json:"contributionCalendar"`
				} `json:"contributionsCollection"`
			} `json:"user"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Grid{}, fmt.Errorf("contrib: failed to decode response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return Grid{}, fmt.Errorf("contrib: GitHub API error: %s", parsed.Errors[0].Message)
	}
	if parsed.Data.User == nil {
		return Grid{}, fmt.Errorf("contrib: user %q not found", username)
	}

	calendar := parsed.Data.User.ContributionsCollection.ContributionCalendar
	grid := Grid{
		Username:           username,
		TotalContributions: calendar.TotalContributions,
		Weeks:              make([]Week, 0, len(calendar.Weeks)),
	}
	for _, week := range calendar.Weeks {
		days := make([]Day, 0, len(week.ContributionDays))
		for _, day := range week.ContributionDays {
			days = append(days, Day{
				Level: levelFromName(day.ContributionLevel),
				Date:  day.Date,
			})
		}
		grid.Weeks = append(grid.Weeks, Week{Days: days})
	}
	return grid, grid.Validate()
}

// levelFromName maps the GraphQL contribution level enum to 0-4.
func levelFromName(name string) int {
	switch name {
	case "FIRST_QUARTILE":
		return 1
	case "SECOND_QUARTILE":
		return 2
	case "THIRD_QUARTILE":
		return 3
	case "FOURTH_QUARTILE":
		return 4
	default:
		return 0
	}
}

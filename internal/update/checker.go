// Package update discovers the latest published release on GitHub. Failures
// are soft: callers log and move on, transcription never depends on this.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const releasesURL = "https://api.github.com/repos/andreipa/police-transcriber/releases/latest"

// Release is the subset of the GitHub latest-release payload we care about.
type Release struct {
	Version string
	URL     string
}

type Checker struct {
	client *http.Client
	url    string
}

func NewChecker() *Checker {
	return &Checker{
		client: &http.Client{Timeout: 5 * time.Second},
		url:    releasesURL,
	}
}

// Latest fetches the newest published release tag, with any leading "v"
// stripped, and the release page URL.
func (c *Checker) Latest(ctx context.Context) (Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Release{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("unexpected status %d from releases endpoint", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Release{}, fmt.Errorf("read releases response: %w", err)
	}

	var payload struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Release{}, fmt.Errorf("parse releases response: %w", err)
	}
	if payload.TagName == "" {
		return Release{}, fmt.Errorf("releases response has no tag name")
	}

	return Release{
		Version: strings.TrimPrefix(payload.TagName, "v"),
		URL:     payload.HTMLURL,
	}, nil
}

// IsNewer reports whether latest is a strictly newer semantic version than
// current. Unparsable versions compare as not newer.
func IsNewer(latest, current string) bool {
	latestVersion, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false
	}
	currentVersion, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false
	}
	return latestVersion.GreaterThan(currentVersion)
}

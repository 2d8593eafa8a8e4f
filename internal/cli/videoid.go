package cli

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// videoIDRe matches a bare YouTube video ID (canonically 11 characters of
// the URL-safe base64 alphabet).
var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID extracts the video identifier from a watch URL, a youtu.be
// short link, or a bare video ID. For watch URLs this is the value of the
// `v` query parameter, with any trailing parameters stripped:
// "...watch?v=ABC123&pp=xyz" yields "ABC123".
func ParseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidVideoURL)
	}

	// Bare ID passes through untouched.
	if videoIDRe.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidVideoURL, err)
	}

	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}

	// Short links carry the ID as the path: youtu.be/<id>.
	if strings.HasSuffix(u.Host, "youtu.be") {
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: no video ID in %q", ErrInvalidVideoURL, raw)
}

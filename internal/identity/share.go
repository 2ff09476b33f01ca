package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const sharePathPrefix = "/shared/task/"

var ErrInvalidShareLink = errors.New("invalid share link")

func ShareLink(host, taskID string) (string, error) {
	if !IsValidID(taskID) {
		return "", ErrInvalidShareLink
	}
	return fmt.Sprintf("https://%s%s%s", host, sharePathPrefix, taskID), nil
}

// ParseShareLink extracts the task id from a share link. A bare id is also
// accepted so pasted ids behave like links.
func ParseShareLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", ErrInvalidShareLink
	}

	if IsValidID(link) {
		return link, nil
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", ErrInvalidShareLink
	}

	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasPrefix(path, sharePathPrefix) {
		return "", ErrInvalidShareLink
	}

	id := strings.TrimPrefix(path, sharePathPrefix)
	if !IsValidID(id) {
		return "", ErrInvalidShareLink
	}

	return id, nil
}

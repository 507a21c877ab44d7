// Package git auto-detects the GitLab project and branch from the
// local working copy. Absence of either is a valid, non-fatal result;
// callers fall back to explicit configuration.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Remote identifies a GitLab project parsed from a git remote URL.
type Remote struct {
	Host      string
	Namespace string
	Name      string
}

// Path returns the "namespace/project" form used by the projects API.
func (r Remote) Path() string {
	return r.Namespace + "/" + r.Name
}

// DetectRemote reads the origin remote of the current working copy and
// parses it. Returns an error when there is no repository, no origin,
// or the URL shape is not recognized.
func DetectRemote() (Remote, error) {
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return Remote{}, fmt.Errorf("no origin remote: %w", err)
	}
	return ParseRemoteURL(strings.TrimSpace(string(out)))
}

// CurrentBranch returns the checked-out branch name.
func CurrentBranch() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("determine current branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ParseRemoteURL handles both remote URL shapes:
//
//	git@gitlab.example.com:namespace/project.git
//	https://gitlab.example.com/namespace/project.git
func ParseRemoteURL(url string) (Remote, error) {
	switch {
	case strings.HasPrefix(url, "git@"):
		return parseSSH(url)
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return parseHTTPS(url)
	}
	return Remote{}, fmt.Errorf("unsupported remote URL format: %q", url)
}

func parseSSH(url string) (Remote, error) {
	rest := strings.TrimPrefix(url, "git@")
	host, path, ok := strings.Cut(rest, ":")
	if !ok {
		return Remote{}, fmt.Errorf("malformed SSH remote URL: %q", url)
	}
	return splitPath(host, path, url)
}

func parseHTTPS(url string) (Remote, error) {
	rest := url
	rest = strings.TrimPrefix(rest, "https://")
	rest = strings.TrimPrefix(rest, "http://")
	host, path, ok := strings.Cut(rest, "/")
	if !ok {
		return Remote{}, fmt.Errorf("malformed HTTPS remote URL: %q", url)
	}
	return splitPath(host, path, url)
}

func splitPath(host, path, url string) (Remote, error) {
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Remote{}, fmt.Errorf("cannot parse namespace/project from %q", url)
	}
	// Subgroup paths keep their full namespace (group/subgroup).
	if idx := strings.LastIndex(path, "/"); idx > 0 {
		return Remote{Host: host, Namespace: path[:idx], Name: path[idx+1:]}, nil
	}
	return Remote{Host: host, Namespace: parts[0], Name: parts[1]}, nil
}

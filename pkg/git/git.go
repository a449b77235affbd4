// Package git reads the local clone to locate the remote repository a
// release targets.
package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/sgaunet/auto-release/internal/urlutil"
)

const originRemote = "origin"

var (
	errNoRemoteURL         = errors.New("remote has no URL")
	errUnsupportedHost     = errors.New("repository is not hosted on GitLab or GitHub")
	errUnsupportedPlatform = errors.New("unsupported platform")
	errNoRepositoryPath    = errors.New("remote URL has no owner/repository path")

	// ErrUnsupportedHost is returned when the remote host is neither GitHub nor GitLab.
	ErrUnsupportedHost = errUnsupportedHost
	// ErrUnsupportedPlatform is returned for a configured platform name that is not known.
	ErrUnsupportedPlatform = errUnsupportedPlatform
	// ErrNoRepositoryPath is returned when the remote URL carries no owner/repo.
	ErrNoRepositoryPath = errNoRepositoryPath
)

type Repository struct {
	repo *git.Repository
}

type Platform string

const (
	PlatformGitLab Platform = "gitlab"
	PlatformGitHub Platform = "github"
)

// ParsePlatform validates a configured platform name.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformGitHub, PlatformGitLab:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedPlatform, s)
	}
}

// PlatformFromHost guesses the platform from a remote host name, so that
// self-hosted instances such as gitlab.example.com are recognized.
func PlatformFromHost(host string) (Platform, error) {
	host = strings.ToLower(host)
	switch {
	case strings.Contains(host, "gitlab"):
		return PlatformGitLab, nil
	case strings.Contains(host, "github"):
		return PlatformGitHub, nil
	default:
		return "", fmt.Errorf("%w: %s", errUnsupportedHost, host)
	}
}

// OpenRepository opens the repository containing path, walking up to the
// directory holding .git.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	return &Repository{repo: repo}, nil
}

func (r *Repository) GetRemoteURL(remoteName string) (string, error) {
	remote, err := r.repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s", errNoRemoteURL, remoteName)
	}

	return urls[0], nil
}

func (r *Repository) DetectPlatform() (Platform, error) {
	url, err := r.GetRemoteURL(originRemote)
	if err != nil {
		return "", err
	}
	return PlatformFromHost(urlutil.Host(url))
}

// Remote describes the hosted repository behind the origin remote.
type Remote struct {
	URL      string
	Host     string
	Platform Platform
	Owner    string // namespace, may contain nested groups
	Repo     string
}

// Path returns owner/repo.
func (r Remote) Path() string {
	return r.Owner + "/" + r.Repo
}

// Origin resolves the origin remote into platform, owner, and repository.
func (r *Repository) Origin() (*Remote, error) {
	url, err := r.GetRemoteURL(originRemote)
	if err != nil {
		return nil, err
	}

	host := urlutil.Host(url)
	platform, err := PlatformFromHost(host)
	if err != nil {
		return nil, err
	}

	owner, repo, ok := urlutil.SplitOwnerRepo(urlutil.RepositoryPath(url))
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoRepositoryPath, url)
	}

	return &Remote{
		URL:      url,
		Host:     host,
		Platform: platform,
		Owner:    owner,
		Repo:     repo,
	}, nil
}

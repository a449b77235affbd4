package platform

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/go-github/v69/github"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// classifyGitHub attaches a sentinel to a go-github failure.
func classifyGitHub(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		messages := []string{errResp.Message}
		for _, e := range errResp.Errors {
			messages = append(messages, e.Message)
		}
		if sentinel := FromStatus(errResp.Response.StatusCode, strings.Join(messages, " ")); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
	}

	return classifyNetwork(err)
}

// classifyGitLab attaches a sentinel to a client-go failure.
func classifyGitLab(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gitlab.ErrNotFound) {
		return notFound(err)
	}

	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		if sentinel := FromStatus(errResp.Response.StatusCode, errResp.Message); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
	}

	return classifyNetwork(err)
}

func classifyNetwork(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return err
}

func notFound(err error) error {
	return fmt.Errorf("%w: %w", ErrNotFound, err)
}

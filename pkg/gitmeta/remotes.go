package gitmeta

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/restamp/pkg/errors"
)

// Remote URL styles accepted by the git_remote configuration key.
const (
	RemoteAuto      = "auto"
	RemoteGitHub    = "github"
	RemoteGitLab    = "gitlab"
	RemoteBitBucket = "bitbucket"
)

// Remote builds browsable web URLs from a git remote URL.
type Remote interface {
	// ProjectURL returns the project page URL.
	ProjectURL() string

	// CommitURL returns the URL of a commit page.
	CommitURL(commitHash string) string
}

// webRemote covers the hosts whose URL schemes differ only in the
// commit path segment.
type webRemote struct {
	url           string
	commitSegment string
}

func (r *webRemote) ProjectURL() string {
	return r.url
}

func (r *webRemote) CommitURL(commitHash string) string {
	return strings.TrimRight(r.url, "/") + "/" + r.commitSegment + "/" + commitHash
}

var sshRemoteRe = regexp.MustCompile(`^[^@]*@([^:]+):`)

// normalizeRemoteURL turns an ssh-style remote
// (git@github.com:acme/tpl.git) into its https project URL.
func normalizeRemoteURL(remoteURL string) string {
	url := sshRemoteRe.ReplaceAllString(remoteURL, "https://$1/")
	return strings.TrimSuffix(url, ".git")
}

// NewRemote builds a Remote for remoteURL. kind selects the URL style;
// RemoteAuto detects it from the URL host and fails when no known host
// matches, pointing at the git_remote configuration key.
func NewRemote(remoteURL, kind string) (Remote, error) {
	if kind == "" || kind == RemoteAuto {
		lower := strings.ToLower(remoteURL)
		switch {
		case strings.Contains(lower, "gitlab"):
			kind = RemoteGitLab
		case strings.Contains(lower, "github"):
			kind = RemoteGitHub
		case strings.Contains(lower, "bitbucket"):
			kind = RemoteBitBucket
		default:
			return nil, errors.Newf(errors.ErrGitMeta,
				"unable to determine the remote type from %q; set git_remote in the template configuration",
				remoteURL)
		}
	}

	url := normalizeRemoteURL(remoteURL)
	switch kind {
	case RemoteGitHub, RemoteGitLab:
		return &webRemote{url: url, commitSegment: "commit"}, nil
	case RemoteBitBucket:
		return &webRemote{url: url, commitSegment: "commits"}, nil
	default:
		return nil, errors.Newf(errors.ErrGitMeta, "unknown git_remote type %q", kind)
	}
}

package model

import "strings"

// RepoRef is a lightweight reference to a GitHub repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the full repository name in owner/repo format.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether the reference is missing an owner or a name.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" || r.Name == ""
}

// ParseRepoRef parses a full name like "owner/repo" into a RepoRef.
func ParseRepoRef(fullName string) RepoRef {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return RepoRef{
				Owner: fullName[:i],
				Name:  fullName[i+1:],
			}
		}
	}
	return RepoRef{Name: fullName}
}

// ParseRemoteURL extracts owner/repo from a git remote URL such as
// https://github.com/owner/repo.git, git@github.com:owner/repo.git or
// ssh://git@github.com/owner/repo.
func ParseRemoteURL(remoteURL string) (RepoRef, bool) {
	u := strings.TrimSpace(remoteURL)
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")

	var path string
	switch {
	case strings.Contains(u, "://"):
		rest := u[strings.Index(u, "://")+3:]
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			return RepoRef{}, false
		}
		path = rest[slash+1:]
	case strings.Contains(u, ":"):
		// scp-like syntax: user@host:owner/repo
		path = u[strings.LastIndex(u, ":")+1:]
	default:
		return RepoRef{}, false
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return RepoRef{}, false
	}
	ref := RepoRef{Owner: parts[len(parts)-2], Name: parts[len(parts)-1]}
	if ref.IsZero() {
		return RepoRef{}, false
	}
	return ref, true
}

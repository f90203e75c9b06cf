package model

import "time"

// Release represents a GitHub release.
type Release struct {
	ID          int64     `json:"id"`
	TagName     string    `json:"tagName"`
	Name        string    `json:"name"`
	Body        string    `json:"body,omitempty"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	CreatedAt   time.Time `json:"createdAt"`
	PublishedAt time.Time `json:"publishedAt"`
	HTMLURL     string    `json:"htmlUrl"`
	Repo        RepoRef   `json:"repo"`
}

// ReleaseRequest contains the information needed to create a new GitHub release.
type ReleaseRequest struct {
	Repo       RepoRef `json:"repo"`
	TagName    string  `json:"tagName"`
	Name       string  `json:"name"`
	Body       string  `json:"body"`
	Draft      bool    `json:"draft"`
	Prerelease bool    `json:"prerelease"`
}

// ReleaseDecision is the outcome of the checks that run before any version is
// computed. It only lives for the duration of one run.
type ReleaseDecision struct {
	Skip          bool   `json:"skip"`
	Reason        string `json:"reason,omitempty"`
	AlreadyTagged bool   `json:"alreadyTagged"`
	NewVersion    string `json:"newVersion,omitempty"`
}

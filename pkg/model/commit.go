package model

import (
	"strings"
	"time"
)

// Signature identifies who made a commit or tag and when.
type Signature struct {
	Name  string    `json:"name" yaml:"name"`
	Email string    `json:"email" yaml:"email"`
	When  time.Time `json:"when" yaml:"when"`
}

// Commit represents a git commit read from the repository.
type Commit struct {
	Hash      string    `json:"hash" yaml:"hash"`
	Author    Signature `json:"author" yaml:"author"`
	Committer Signature `json:"committer" yaml:"committer"`
	Message   string    `json:"message" yaml:"message"`
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Tag represents a git tag resolved to the commit it points at.
type Tag struct {
	Name      string    `json:"name" yaml:"name"`
	Hash      string    `json:"hash" yaml:"hash"` // target commit
	Time      time.Time `json:"time" yaml:"time"` // target commit committer time
	Annotated bool      `json:"annotated" yaml:"annotated"`
}

// TagRequest contains the information needed to create an annotated tag.
type TagRequest struct {
	Name    string    `json:"name"`
	Target  string    `json:"target"` // commit hash
	Message string    `json:"message"`
	Tagger  Signature `json:"tagger"`
}

package releaser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// AuthMethodFromEnv returns push credentials for gitURL based on the
// environment, or nil to let go-git use its defaults.
//
// SSH remotes use the ssh agent when SSH_AUTH_SOCK is set, otherwise
// ~/.ssh/id_ed25519 or ~/.ssh/id_rsa. HTTPS remotes use GIT_USERNAME and
// GIT_PASSWORD, then GITHUB_TOKEN.
func AuthMethodFromEnv(gitURL string) transport.AuthMethod {
	if strings.HasPrefix(gitURL, "git@") || strings.HasPrefix(gitURL, "ssh://") {
		if os.Getenv("SSH_AUTH_SOCK") != "" {
			if auth, err := ssh.NewSSHAgentAuth("git"); err == nil {
				return auth
			}
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		for _, name := range []string{"id_ed25519", "id_rsa"} {
			keyPath := filepath.Join(home, ".ssh", name)
			if _, err := os.Stat(keyPath); err != nil {
				continue
			}
			if auth, err := ssh.NewPublicKeysFromFile("git", keyPath, ""); err == nil {
				return auth
			}
		}
		return nil
	}

	if strings.HasPrefix(gitURL, "https://") || strings.HasPrefix(gitURL, "http://") {
		username := os.Getenv("GIT_USERNAME")
		password := os.Getenv("GIT_PASSWORD")
		if username != "" && password != "" {
			return &http.BasicAuth{
				Username: username,
				Password: password,
			}
		}

		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			return &http.BasicAuth{
				Username: "x-access-token",
				Password: token,
			}
		}
	}

	// Local paths and file:// remotes need no credentials.
	return nil
}

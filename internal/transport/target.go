package transport

import (
	"errors"
	"fmt"
	"os/user"
	"path"
	"strings"
)

// Target is a parsed push destination. Host is empty for local directories.
type Target struct {
	User string
	Host string
	Path string
}

// Remote reports whether the target is reached over SFTP.
func (t Target) Remote() bool {
	return t.Host != ""
}

func (t Target) String() string {
	if !t.Remote() {
		return t.Path
	}
	return fmt.Sprintf("%s@%s:%s", t.User, t.Host, t.Path)
}

var currentUser = func() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// ParseTarget parses "[user@]host:path" or a local directory. The user
// defaults to the current account and a leading "~" in a remote path expands
// to /home/<user>. An empty remote path means the login directory.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, errors.New("empty push target")
	}
	colon := strings.Index(raw, ":")
	if colon < 0 || strings.Contains(raw[:colon], "/") {
		return Target{Path: raw}, nil
	}

	hostPart, remotePath := raw[:colon], raw[colon+1:]
	var t Target
	if at := strings.LastIndex(hostPart, "@"); at >= 0 {
		t.User, t.Host = hostPart[:at], hostPart[at+1:]
	} else {
		t.Host = hostPart
	}
	if t.Host == "" {
		return Target{}, fmt.Errorf("push target %q: hostname required", raw)
	}
	if t.User == "" {
		name, err := currentUser()
		if err != nil {
			return Target{}, fmt.Errorf("push target %q: resolve current user: %w", raw, err)
		}
		t.User = name
	}
	if remotePath == "~" || strings.HasPrefix(remotePath, "~/") {
		remotePath = "/home/" + t.User + remotePath[1:]
	}
	if remotePath == "" {
		remotePath = "."
	}
	t.Path = path.Clean(remotePath)
	return t, nil
}

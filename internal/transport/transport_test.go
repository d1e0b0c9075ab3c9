package transport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deepaclive/internal/config"
	"deepaclive/internal/services"
)

func TestParseTarget(t *testing.T) {
	original := currentUser
	currentUser = func() (string, error) { return "seq", nil }
	t.Cleanup(func() { currentUser = original })

	cases := []struct {
		raw  string
		want Target
	}{
		{"alice@host.example:/data/in", Target{User: "alice", Host: "host.example", Path: "/data/in"}},
		{"host.example:~/deepac", Target{User: "seq", Host: "host.example", Path: "/home/seq/deepac"}},
		{"bob@gpu01:~", Target{User: "bob", Host: "gpu01", Path: "/home/bob"}},
		{"gpu01:", Target{User: "seq", Host: "gpu01", Path: "."}},
		{"/srv/exchange", Target{Path: "/srv/exchange"}},
		{"./relative/dir:with-colon", Target{Path: "./relative/dir:with-colon"}},
	}
	for _, tc := range cases {
		got, err := ParseTarget(tc.raw)
		if err != nil {
			t.Fatalf("ParseTarget(%q) returned error: %v", tc.raw, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("ParseTarget(%q) mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}

	for _, raw := range []string{"", "  ", "alice@:/data"} {
		if _, err := ParseTarget(raw); err == nil {
			t.Fatalf("ParseTarget(%q) expected error", raw)
		}
	}
}

func TestLocalPushCopiesFiles(t *testing.T) {
	src := t.TempDir()
	files := []string{filepath.Join(src, "a_1.bam"), filepath.Join(src, "a_2.bam")}
	for i, f := range files {
		if err := os.WriteFile(f, []byte{byte(i), 1, 2}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	dest := filepath.Join(t.TempDir(), "nested", "exchange")
	pusher, err := New(config.Remote{Target: dest}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := pusher.Push(context.Background(), files); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	for i, f := range files {
		data, err := os.ReadFile(filepath.Join(dest, filepath.Base(f)))
		if err != nil {
			t.Fatalf("missing pushed file: %v", err)
		}
		if diff := cmp.Diff([]byte{byte(i), 1, 2}, data); diff != "" {
			t.Fatalf("content mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestLocalPushMissingSourceIsTransportError(t *testing.T) {
	pusher := &Local{Dir: t.TempDir()}
	err := pusher.Push(context.Background(), []string{filepath.Join(t.TempDir(), "absent.bam")})
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSFTPMissingCredentialsFailBeforeDial(t *testing.T) {
	dir := t.TempDir()
	s := &SFTP{
		Target:     Target{User: "u", Host: "127.0.0.1", Path: "/in"},
		KeyPath:    filepath.Join(dir, "id_ed25519"),
		KnownHosts: filepath.Join(dir, "known_hosts"),
	}
	err := s.Push(context.Background(), nil)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if err := os.WriteFile(s.KnownHosts, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.KeyPath, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	err = s.Push(context.Background(), nil)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport error for bad key, got %v", err)
	}
}

func TestNewRemoteTarget(t *testing.T) {
	p, err := New(config.Remote{Target: "alice@gpu01:/in", Port: 2222}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	s, ok := p.(*SFTP)
	if !ok {
		t.Fatalf("expected *SFTP, got %T", p)
	}
	if s.Target.Host != "gpu01" || s.port() != 2222 {
		t.Fatalf("unexpected sftp pusher %+v", s)
	}
}

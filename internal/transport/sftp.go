package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"deepaclive/internal/logging"
	"deepaclive/internal/services"
)

const dialTimeout = 30 * time.Second

// SFTP pushes files over an SSH connection authenticated by private key.
type SFTP struct {
	Target     Target
	Port       int
	KeyPath    string
	KnownHosts string
	logger     *slog.Logger
}

// Push implements Pusher. One connection is opened per call and the remote
// directory is created when missing.
func (s *SFTP) Push(ctx context.Context, files []string) error {
	clientConfig, err := s.clientConfig()
	if err != nil {
		return err
	}
	addr := net.JoinHostPort(s.Target.Host, strconv.Itoa(s.port()))
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return services.Wrap(services.ErrTransport, "push", "dial", addr, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		_ = conn.Close()
		return services.Wrap(services.ErrTransport, "push", "handshake", s.Target.String(), err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	sc, err := sftp.NewClient(client)
	if err != nil {
		return services.Wrap(services.ErrTransport, "push", "sftp session", s.Target.String(), err)
	}
	defer sc.Close()

	if err := sc.MkdirAll(s.Target.Path); err != nil {
		return services.Wrap(services.ErrTransport, "push", "mkdir", s.Target.Path, err)
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		remote := path.Join(s.Target.Path, filepath.Base(file))
		if err := upload(sc, file, remote); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return services.Wrap(services.ErrTransport, "push", "upload", remote, err)
		}
		if s.logger != nil {
			s.logger.Debug("artifact pushed",
				logging.String("file", file),
				logging.String("destination", s.Target.Host+":"+remote),
			)
		}
	}
	return nil
}

func (s *SFTP) port() int {
	if s.Port > 0 {
		return s.Port
	}
	return 22
}

func (s *SFTP) clientConfig() (*ssh.ClientConfig, error) {
	hostKeys, err := knownhosts.New(s.KnownHosts)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "push", "known hosts", s.KnownHosts, err)
	}
	pem, err := os.ReadFile(s.KeyPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "push", "private key", s.KeyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "push", "private key", s.KeyPath, err)
	}
	return &ssh.ClientConfig{
		User:            s.Target.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeys,
		Timeout:         dialTimeout,
	}, nil
}

func upload(sc *sftp.Client, local, remote string) error {
	in, err := os.Open(local)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := path.Join(path.Dir(remote), "."+path.Base(remote)+".partial")
	out, err := sc.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = sc.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = sc.Remove(tmp)
		return err
	}
	if err := sc.PosixRename(tmp, remote); err != nil {
		_ = sc.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

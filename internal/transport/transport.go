package transport

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"deepaclive/internal/config"
	"deepaclive/internal/fileutil"
	"deepaclive/internal/logging"
	"deepaclive/internal/services"
)

// Pusher delivers local files to a destination directory.
type Pusher interface {
	Push(ctx context.Context, files []string) error
}

// New builds the Pusher for the configured remote target.
func New(cfg config.Remote, logger *slog.Logger) (Pusher, error) {
	target, err := ParseTarget(cfg.Target)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "push", "parse target", "", err)
	}
	logger = logging.NewComponentLogger(logger, "transport")
	if !target.Remote() {
		return &Local{Dir: target.Path, logger: logger}, nil
	}
	return &SFTP{
		Target:     target,
		Port:       cfg.Port,
		KeyPath:    cfg.KeyPath,
		KnownHosts: cfg.KnownHosts,
		logger:     logger,
	}, nil
}

// Local copies files into a directory on this machine.
type Local struct {
	Dir    string
	logger *slog.Logger
}

// Push implements Pusher.
func (l *Local) Push(ctx context.Context, files []string) error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return services.Wrap(services.ErrTransport, "push", "mkdir", l.Dir, err)
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := filepath.Join(l.Dir, filepath.Base(file))
		if err := fileutil.CopyFileVerified(file, dst); err != nil {
			return services.Wrap(services.ErrTransport, "push", "copy", fmt.Sprintf("%s -> %s", file, dst), err)
		}
		if l.logger != nil {
			l.logger.Debug("artifact pushed", logging.String("file", file), logging.String("destination", dst))
		}
	}
	return nil
}

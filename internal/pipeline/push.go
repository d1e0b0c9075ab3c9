package pipeline

import (
	"context"
	"log/slog"

	"deepaclive/internal/fileutil"
	"deepaclive/internal/logging"
	"deepaclive/internal/transport"
	"deepaclive/internal/unit"
)

// PushExisting pushes the already extracted artifacts of every configured
// unit. Units whose artifacts are not all present are reported and skipped.
// It returns the number of files pushed.
func PushExisting(ctx context.Context, settings Settings, exchangeDir, format string, pusher transport.Pusher, logger *slog.Logger) (int, error) {
	logger = logging.NewComponentLogger(logger, "push")
	cursor := unit.NewCursor(settings.Cycles, settings.Barcodes)
	var files []string
	for _, addr := range cursor.Units() {
		paths := settings.Layout.MatePaths(exchangeDir, addr, settings.ReadLength, format)
		complete := true
		for _, path := range paths {
			if !fileutil.Ready(path) {
				complete = false
				break
			}
		}
		if !complete {
			logging.WarnWithContext(logger, "unit not extracted, not pushed", "push_unit_missing",
				logging.Cycle(addr.Cycle),
				logging.Barcode(addr.Barcode),
				logging.String(logging.FieldImpact, "receiver will keep waiting for this unit"),
				logging.String(logging.FieldErrorHint, "run the sender for this cycle first"),
			)
			continue
		}
		files = append(files, paths...)
	}
	if len(files) == 0 {
		return 0, nil
	}
	if err := pusher.Push(ctx, files); err != nil {
		return 0, err
	}
	var bytes int64
	for _, path := range files {
		if size, err := fileutil.Size(path); err == nil {
			bytes += size
		}
	}
	logger.Info("artifacts pushed", logging.Int("files", len(files)), logging.Int("bytes", int(bytes)))
	return len(files), nil
}

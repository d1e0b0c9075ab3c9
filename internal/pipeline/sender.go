package pipeline

import (
	"context"

	"deepaclive/internal/config"
	"deepaclive/internal/extract"
	"deepaclive/internal/fileutil"
	"deepaclive/internal/seqset"
	"deepaclive/internal/transport"
	"deepaclive/internal/unit"
)

// Sender extracts reads from raw capture units into the exchange directory
// and optionally pushes them to a remote receiver.
type Sender struct {
	loop        *loop
	rawDir      string
	exchangeDir string
	extractor   *extract.Extractor
	pusher      transport.Pusher
}

// NewSender returns a Sender. pusher may be nil.
func NewSender(env Env, rawDir, exchangeDir string, extractor *extract.Extractor, pusher transport.Pusher) *Sender {
	return &Sender{
		loop:        newLoop(config.StageSender, env, "sending unit", "all units sent"),
		rawDir:      rawDir,
		exchangeDir: exchangeDir,
		extractor:   extractor,
		pusher:      pusher,
	}
}

// Run walks every configured unit.
func (s *Sender) Run(ctx context.Context) error {
	return s.loop.run(ctx, s)
}

func (s *Sender) ready(addr unit.Address) bool {
	return fileutil.Ready(s.loop.env.Settings.Layout.Raw(s.rawDir, addr))
}

func (s *Sender) process(ctx context.Context, addr unit.Address) (Outcome, error) {
	settings := s.loop.env.Settings
	raw := settings.Layout.Raw(s.rawDir, addr)
	outputs := settings.Layout.MatePaths(s.exchangeDir, addr, settings.ReadLength, s.extractor.Format())
	if err := s.extractor.Extract(ctx, raw, outputs); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Paired: len(outputs) > 1}
	if s.extractor.Format() == unit.ExtFASTA {
		for _, out := range outputs {
			n, err := seqset.Count(out)
			if err != nil {
				return Outcome{}, err
			}
			outcome.Reads += n
		}
	}
	if s.pusher != nil {
		if err := s.pusher.Push(ctx, outputs); err != nil {
			return Outcome{}, err
		}
	}
	return outcome, nil
}

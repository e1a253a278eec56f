package ledger

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/logger"
)

// FXModule provides the Ledger chosen by Config.Enabled: Postgres when
// enabled, Memory otherwise. A *Config must be supplied.
var FXModule = fx.Module("ledger",
	fx.Provide(New),
	fx.Invoke(RegisterLedgerLifecycle),
)

// Params groups the dependencies of New.
type Params struct {
	fx.In

	Config *Config
	Logger logger.Logger `optional:"true"`
}

// New returns the configured Ledger.
func New(p Params) (Ledger, error) {
	if p.Config == nil || !p.Config.Enabled {
		return NewMemory(), nil
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	return NewPostgres(p.Config, p.Logger)
}

// RegisterLedgerLifecycle runs the connection monitor of a Postgres
// ledger and closes it on stop. A Memory ledger needs neither.
func RegisterLedgerLifecycle(lc fx.Lifecycle, l Ledger) {
	pg, ok := l.(*Postgres)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go pg.MonitorConnection(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return pg.Close()
		},
	})
}

package backend

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-policy-service/internal/config"
)

// Execution strategies. The mode comes from explicit configuration and is
// fixed for the life of the process.
const (
	ModeProxy  = "proxy"
	ModeDirect = "direct"
)

// Dependencies carries the resources the strategies may need. The pool is
// only required in direct mode, the admin password only for the direct
// client-side credential check.
type Dependencies struct {
	Pool          *pgxpool.Pool
	AdminPassword string
	Logger        *zap.Logger
}

// New selects the strategy once from configuration. Direct mode in an
// environment declared proxy-only is a misconfiguration and fails fast.
func New(cfg config.BackendConfig, deps Dependencies) (Backend, error) {
	switch cfg.Mode {
	case ModeProxy:
		return NewProxy(cfg.BaseURL, deps.Logger), nil
	case ModeDirect:
		if cfg.ProxyOnly {
			return nil, fmt.Errorf("backend mode %q not allowed: environment is proxy-only", cfg.Mode)
		}
		if deps.Pool == nil {
			return nil, fmt.Errorf("backend mode %q requires a database pool", cfg.Mode)
		}
		return NewDirect(deps.Pool, deps.AdminPassword), nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.Mode)
	}
}

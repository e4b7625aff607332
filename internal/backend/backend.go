// Package backend selects the task store named in the settings.
package backend

import (
	"context"
	"errors"
	"fmt"

	"todo/internal/backend/googletasks"
	"todo/internal/backend/rest"
	"todo/internal/config"
	"todo/internal/service"
)

// ErrConfig marks store construction failures caused by missing or
// invalid configuration or credentials.
var ErrConfig = errors.New("configuration error")

// New builds the store selected by cfg.Settings.Backend.
func New(ctx context.Context, cfg *config.Config) (service.Store, error) {
	switch cfg.Settings.Backend {
	case "", config.BackendREST:
		c, err := rest.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		return c, nil

	case config.BackendGoogleTasks:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", ErrConfig, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in (run: todo login)", ErrConfig)
		}
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("%w: unknown backend: %s", ErrConfig, cfg.Settings.Backend)
	}
}

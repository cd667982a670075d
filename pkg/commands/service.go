package commands

import (
	"github.com/scenemap/scenemap/pkg/api"
	"github.com/scenemap/scenemap/pkg/app"
	"github.com/scenemap/scenemap/pkg/config"
)

// loadService builds the session service from the on-disk config.
func loadService() (*app.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	client := &api.HTTP{Base: cfg.Server, Token: cfg.Token}
	return app.New(cfg, client), cfg, nil
}

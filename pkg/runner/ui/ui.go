package ui

import (
	"context"
	"errors"

	"github.com/scenemap/scenemap/pkg/app"
	"github.com/scenemap/scenemap/pkg/tui"
)

type UI struct {
	Service *app.Service
}

func (n *UI) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not open ui, no service")
	}
	return tui.Run(n.Service)
}

// Package fav holds the favorites mutations behind the fav subcommands.
package fav

import (
	"context"
	"errors"
	"fmt"

	"github.com/scenemap/scenemap/pkg/app"
	"github.com/scenemap/scenemap/pkg/place"
)

type Add struct {
	Spot    place.Record
	Service *app.Service
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	if err := n.Spot.Validate(); err != nil {
		return err
	}
	if err := n.Service.SignIn(ctx); err != nil {
		return err
	}
	if err := n.Service.Coordinator.AddFavorite(ctx, n.Spot); err != nil {
		return err
	}
	fmt.Printf("added %s\n", n.Spot.ID)
	return nil
}

type Remove struct {
	ID      string
	Service *app.Service
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not remove, no service")
	}
	if err := n.Service.SignIn(ctx); err != nil {
		return err
	}
	if err := n.Service.Coordinator.RemoveFavorite(ctx, n.ID); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", n.ID)
	return nil
}

type Order struct {
	IDs     []string
	Service *app.Service
}

func (n *Order) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not reorder, no service")
	}
	if err := n.Service.SignIn(ctx); err != nil {
		return err
	}
	return n.Service.Coordinator.ReorderFavorites(ctx, n.IDs)
}

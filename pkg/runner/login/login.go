package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/scenemap/scenemap/pkg/api"
)

type Login struct {
	Server   string
	Username string
	Password string
}

func (n *Login) Do(ctx context.Context) error {
	if n.Server == "" {
		return errors.New("can not login, no server")
	}
	token, err := api.Login(ctx, n.Server, n.Username, n.Password)
	if err != nil {
		return err
	}
	fmt.Println("signed in, add this to .scenemap.yaml:")
	fmt.Printf("\ntoken: %s\naccount: %s\n", token, n.Username)
	return nil
}

package serve

import (
	"context"
	"errors"
	"fmt"

	"github.com/scenemap/scenemap/pkg/server"
)

type Serve struct {
	Addr         string
	Path         string
	Secret       string
	AllowReorder bool
	Users        map[string]string
}

func (n *Serve) Do(ctx context.Context) error {
	if n.Secret == "" {
		return errors.New("can not serve, no token secret")
	}
	s := server.New(server.Options{
		Path:         n.Path,
		Secret:       n.Secret,
		AllowReorder: n.AllowReorder,
		Users:        n.Users,
	})
	fmt.Printf("serving on %s (reorder endpoint %s)\n", n.Addr, onOff(n.AllowReorder))
	return s.Run(n.Addr)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

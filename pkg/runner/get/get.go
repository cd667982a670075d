package get

import (
	"context"
	"errors"
	"fmt"

	"github.com/scenemap/scenemap/pkg/app"
	"github.com/scenemap/scenemap/pkg/printers"
)

type Get struct {
	ShowID    bool
	Favorites bool
	Courses   bool
	Service   *app.Service
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	if err := n.Service.SignIn(ctx); err != nil {
		return err
	}

	m := n.Service.Projector.Model()
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")

	all := !n.Favorites && !n.Courses

	if n.Favorites || all {
		pp.TitleWithCount("Favorites", len(m.Favorites))
		pp.Favorites(m.Favorites)
	}
	if n.Courses || all {
		pp.Title("Courses")
		pp.NewLine()
		pp.Courses(m.Courses)
	}

	return nil
}

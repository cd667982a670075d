package options

import (
	"github.com/spf13/cobra"

	"github.com/scenemap/scenemap/pkg/place"
)

// SpotOptions captures the fields of a place for add-style commands.
type SpotOptions struct {
	ID      string
	Title   string
	Address string
	Lat     float64
	Lng     float64
}

// AddSpotArgs wires spot flags on the provided command.
func AddSpotArgs(cmd *cobra.Command, o *SpotOptions) {
	cmd.Flags().StringVar(&o.ID, "id", "", "Spot id.")
	cmd.Flags().StringVarP(&o.Title, "title", "t", "", "Spot title.")
	cmd.Flags().StringVar(&o.Address, "addr", "", "Spot address.")
	cmd.Flags().Float64Var(&o.Lat, "lat", 0, "Latitude.")
	cmd.Flags().Float64Var(&o.Lng, "lng", 0, "Longitude.")
}

// Record converts the flags to a place record.
func (o *SpotOptions) Record() place.Record {
	return place.Record{
		ID:      o.ID,
		Title:   o.Title,
		Address: o.Address,
		Lat:     o.Lat,
		Lng:     o.Lng,
	}
}

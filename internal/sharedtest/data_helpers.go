package sharedtest

import (
	"time"

	"github.com/mendelcore/go-admin-client/mdmodel"
)

// FixedTime is a timestamp used by record fixtures.
var FixedTime = time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC) //nolint:gochecknoglobals

// MakeSpecies returns a species record with fixed timestamps.
func MakeSpecies(id, name string) mdmodel.PlantSpecies {
	return mdmodel.PlantSpecies{
		PlantSpeciesRequest: mdmodel.PlantSpeciesRequest{Name: name, Taxon: "Taxon " + name},
		ID:                  id,
		CreatedAt:           FixedTime,
		UpdatedAt:           FixedTime,
	}
}

package mdmodel

import "strings"

// Paths of the backend resources, relative to the configured base URL.
const (
	PathHealth        = "/health"
	PathPlant         = "/plant"
	PathPlantCultivar = "/plant-cultivar"
	PathPlantSpecies  = "/plant-species"
)

// Kind describes one entity type: its backend path and the labels used when presenting it.
type Kind struct {
	// Name is the stable identifier of the kind, e.g. "plant-species".
	Name string
	// Path is the resource path under the base URL, e.g. "/plant-species".
	Path string
	// DisplayName is the singular human-readable name, e.g. "Plant Species".
	DisplayName string
	// Title is the heading used for list views, e.g. "Plant Species".
	Title string
	// FormID is the DOM id of the creation form in the web client.
	FormID string
	// Named is true if records of this kind have a display name usable for lookups.
	Named bool
}

// FormTitle returns the title shown on the creation form for this kind.
func (k Kind) FormTitle() string {
	return "Creating a " + k.DisplayName
}

// String returns the kind's Name.
func (k Kind) String() string {
	return k.Name
}

var (
	// PlantKind describes Plant records.
	PlantKind = Kind{
		Name:        "plant",
		Path:        PathPlant,
		DisplayName: "Plant",
		Title:       "Plants",
		FormID:      "plant-form",
	}

	// PlantCultivarKind describes PlantCultivar records.
	PlantCultivarKind = Kind{
		Name:        "plant-cultivar",
		Path:        PathPlantCultivar,
		DisplayName: "Plant Cultivar",
		Title:       "Plant Cultivars",
		FormID:      "plant-cultivar-form",
		Named:       true,
	}

	// PlantSpeciesKind describes PlantSpecies records.
	PlantSpeciesKind = Kind{
		Name:        "plant-species",
		Path:        PathPlantSpecies,
		DisplayName: "Plant Species",
		Title:       "Plant Species",
		FormID:      "plant-species-form",
		Named:       true,
	}
)

var kindAliases = map[string]Kind{
	"plant":          PlantKind,
	"plants":         PlantKind,
	"plant-cultivar": PlantCultivarKind,
	"cultivar":       PlantCultivarKind,
	"cultivars":      PlantCultivarKind,
	"plant-species":  PlantSpeciesKind,
	"species":        PlantSpeciesKind,
}

// AllKinds returns every known kind, in dependency order: species before the cultivars that
// reference them, and cultivars before plants.
func AllKinds() []Kind {
	return []Kind{PlantSpeciesKind, PlantCultivarKind, PlantKind}
}

// KindByName looks up a kind by its Name or by a short alias such as "species" or "cultivars".
// The match is case-insensitive.
func KindByName(name string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

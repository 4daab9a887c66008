package mdfiledata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/mendelcore/go-admin-client/mdmodel"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"gopkg.in/ghodss/yaml.v1"
)

type speciesEntry struct {
	Name  string `json:"name"`
	Taxon string `json:"taxon"`
}

type cultivarEntry struct {
	Name     string           `json:"name"`
	Cultivar string           `json:"cultivar"`
	Species  string           `json:"species"`
	Genetics ldvalue.ValueMap `json:"genetics"`
}

type plantEntry struct {
	Key      string           `json:"key"`
	Cultivar string           `json:"cultivar"`
	Species  string           `json:"species"`
	Seed     string           `json:"seed"`
	Pollen   string           `json:"pollen"`
	Genetics ldvalue.ValueMap `json:"genetics"`
	Labels   ldvalue.ValueMap `json:"labels"`
}

type fileData struct {
	Species   []speciesEntry  `json:"species"`
	Cultivars []cultivarEntry `json:"cultivars"`
	Plants    []plantEntry    `json:"plants"`
}

func readFile(path string) (fileData, error) {
	var data fileData
	var rawData []byte
	var err error
	if rawData, err = os.ReadFile(path); err != nil { // nolint:gosec // G304: ok to read file into variable
		return data, fmt.Errorf("unable to read file: %s", err)
	}
	if detectJSON(rawData) {
		err = json.Unmarshal(rawData, &data)
	} else {
		err = yaml.Unmarshal(rawData, &data)
	}
	if err != nil {
		err = fmt.Errorf("error parsing file: %s", err)
	}
	return data, err
}

func detectJSON(rawData []byte) bool {
	// A valid JSON file for our purposes must be an object, i.e. it must start with '{'
	return strings.HasPrefix(strings.TrimLeftFunc(string(rawData), unicode.IsSpace), "{")
}

type duplicateChecker struct {
	handling DuplicateEntriesHandling
	seen     map[string]bool
}

// add reports whether the entry should be kept.
func (d *duplicateChecker) add(kind mdmodel.Kind, key string) (bool, error) {
	id := kind.Name + "/" + key
	if !d.seen[id] {
		d.seen[id] = true
		return true, nil
	}
	if d.handling == DuplicateEntriesIgnoreAllButFirst {
		return false, nil
	}
	return false, fmt.Errorf("%s '%s' is specified by multiple files", kind.DisplayName, key)
}

func mergeFileData(handling DuplicateEntriesHandling, allFileData ...fileData) (fileData, error) {
	var ret fileData
	checker := duplicateChecker{handling: handling, seen: make(map[string]bool)}
	for _, d := range allFileData {
		for _, s := range d.Species {
			if s.Name == "" {
				return ret, fmt.Errorf("%s entry has no name", mdmodel.PlantSpeciesKind.DisplayName)
			}
			keep, err := checker.add(mdmodel.PlantSpeciesKind, s.Name)
			if err != nil {
				return ret, err
			}
			if keep {
				ret.Species = append(ret.Species, s)
			}
		}
		for _, c := range d.Cultivars {
			if c.Name == "" {
				return ret, fmt.Errorf("%s entry has no name", mdmodel.PlantCultivarKind.DisplayName)
			}
			keep, err := checker.add(mdmodel.PlantCultivarKind, c.Name)
			if err != nil {
				return ret, err
			}
			if keep {
				ret.Cultivars = append(ret.Cultivars, c)
			}
		}
		for _, p := range d.Plants {
			if p.Key == "" {
				return ret, fmt.Errorf("%s entry has no key", mdmodel.PlantKind.DisplayName)
			}
			keep, err := checker.add(mdmodel.PlantKind, p.Key)
			if err != nil {
				return ret, err
			}
			if keep {
				ret.Plants = append(ret.Plants, p)
			}
		}
	}
	return ret, nil
}

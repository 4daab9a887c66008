package mdfiledata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	mendelclient "github.com/mendelcore/go-admin-client"
	"github.com/mendelcore/go-admin-client/internal/toposort"
	"github.com/mendelcore/go-admin-client/mdmodel"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// Target is where imported entries are submitted. *mendelclient.MendelClient implements it.
type Target interface {
	Species() *mendelclient.SpeciesStore
	Cultivars() *mendelclient.CultivarStore
	Plants() *mendelclient.PlantStore
}

// Result counts the entries handled by one load.
type Result struct {
	// Created is the number of records created.
	Created int
	// Skipped is the number of entries that already existed or were created by an earlier load.
	Skipped int
	// Failed is the number of entries that could not be created.
	Failed int
}

// FileImporter submits the entries of a set of files through a client's stores.
type FileImporter struct {
	target          Target
	absFilePaths    []string
	duplicates      DuplicateEntriesHandling
	reloaderFactory ReloaderFactory
	loggers         ldlog.Loggers
	// created maps "kind/name-or-key" to the id of every record this importer has created.
	created         map[string]string
	loadLock        sync.Mutex
	closeOnce       sync.Once
	closeReloaderCh chan struct{}
}

func newFileImporter(
	target Target,
	loggers ldlog.Loggers,
	filePaths []string,
	duplicates DuplicateEntriesHandling,
	reloaderFactory ReloaderFactory,
) (*FileImporter, error) {
	abs, err := absFilePaths(filePaths)
	if err != nil {
		// COVERAGE: there's no reliable cross-platform way to simulate an invalid path in unit tests
		return nil, err
	}
	imp := &FileImporter{
		target:          target,
		absFilePaths:    abs,
		duplicates:      duplicates,
		reloaderFactory: reloaderFactory,
		loggers:         loggers,
		created:         make(map[string]string),
	}
	imp.loggers.SetPrefix("FileImporter:")
	return imp, nil
}

// Start loads the files once, then starts the reloader if one was configured. The returned error is
// that of the first load, or of starting the reloader.
func (imp *FileImporter) Start(ctx context.Context) error {
	_, err := imp.Load(ctx)
	if imp.reloaderFactory == nil {
		return err
	}
	imp.closeReloaderCh = make(chan struct{})
	if rerr := imp.reloaderFactory(imp.absFilePaths, imp.loggers, imp.reload, imp.closeReloaderCh); rerr != nil {
		imp.loggers.Errorf("Unable to start reloader: %s", rerr)
		return rerr
	}
	return err
}

func (imp *FileImporter) reload() {
	result, err := imp.Load(context.Background())
	if err == nil {
		imp.loggers.Infof("Reloaded import files: %d created, %d skipped", result.Created, result.Skipped)
	}
}

// Load reads all of the files and submits every entry that does not exist yet. Loads are serialized.
//
// If any file cannot be read or merged, nothing is submitted and that error is returned. Otherwise the
// error joins the failures of individual entries, which do not stop the rest of the import.
func (imp *FileImporter) Load(ctx context.Context) (Result, error) {
	imp.loadLock.Lock()
	defer imp.loadLock.Unlock()

	var result Result
	filesData := make([]fileData, 0, len(imp.absFilePaths))
	for _, path := range imp.absFilePaths {
		data, err := readFile(path)
		if err != nil {
			imp.loggers.Errorf("Unable to load import file: %s [%s]", err, path)
			return result, err
		}
		filesData = append(filesData, data)
	}
	data, err := mergeFileData(imp.duplicates, filesData...)
	if err != nil {
		imp.loggers.Error(err)
		return result, err
	}

	var errs []error
	for _, step := range []func(context.Context, fileData, *Result) []error{
		imp.importSpecies,
		imp.importCultivars,
		imp.importPlants,
	} {
		errs = append(errs, step(ctx, data, &result)...)
	}
	if len(errs) > 0 {
		imp.loggers.Warnf("%d of %d import entries failed", result.Failed,
			result.Created+result.Skipped+result.Failed)
	}
	return result, errors.Join(errs...)
}

func (imp *FileImporter) importSpecies(ctx context.Context, data fileData, result *Result) []error {
	if len(data.Species) == 0 {
		return nil
	}
	store := imp.target.Species()
	if err := store.FetchIfNeeded(ctx, false); err != nil {
		result.Failed += len(data.Species)
		return []error{err}
	}
	existing := store.Identifiers()
	var errs []error
	for _, e := range data.Species {
		if imp.alreadyPresent(mdmodel.PlantSpeciesKind, e.Name, existing, result) {
			continue
		}
		rec, err := store.SubmitNew(ctx, mdmodel.PlantSpeciesRequest{Name: e.Name, Taxon: e.Taxon})
		errs = recordOutcome(imp, mdmodel.PlantSpeciesKind, e.Name, rec, err, result, errs)
	}
	return errs
}

func (imp *FileImporter) importCultivars(ctx context.Context, data fileData, result *Result) []error {
	if len(data.Cultivars) == 0 {
		return nil
	}
	store := imp.target.Cultivars()
	if err := store.FetchIfNeeded(ctx, false); err != nil {
		result.Failed += len(data.Cultivars)
		return []error{err}
	}
	existing := store.Identifiers()
	speciesIDs, err := imp.speciesIDs(ctx)
	if err != nil {
		result.Failed += len(data.Cultivars)
		return []error{err}
	}
	var errs []error
	for _, e := range data.Cultivars {
		if imp.alreadyPresent(mdmodel.PlantCultivarKind, e.Name, existing, result) {
			continue
		}
		speciesID, err := resolveName(mdmodel.PlantSpeciesKind, e.Species, speciesIDs)
		if err != nil {
			errs = recordOutcome(imp, mdmodel.PlantCultivarKind, e.Name, (*mdmodel.PlantCultivar)(nil), err, result, errs)
			continue
		}
		rec, err := store.SubmitNew(ctx, mdmodel.PlantCultivarRequest{
			Name:      e.Name,
			Cultivar:  e.Cultivar,
			SpeciesID: speciesID,
			Genetics:  e.Genetics,
		})
		errs = recordOutcome(imp, mdmodel.PlantCultivarKind, e.Name, rec, err, result, errs)
	}
	return errs
}

func (imp *FileImporter) importPlants(ctx context.Context, data fileData, result *Result) []error {
	if len(data.Plants) == 0 {
		return nil
	}
	speciesIDs, err := imp.speciesIDs(ctx)
	if err == nil {
		err = imp.target.Cultivars().FetchIfNeeded(ctx, false)
	}
	if err != nil {
		result.Failed += len(data.Plants)
		return []error{err}
	}
	cultivarIDs := imp.target.Cultivars().Identifiers()

	entries := make(map[string]plantEntry, len(data.Plants))
	keys := make([]string, 0, len(data.Plants))
	parents := make(toposort.AdjacencyList)
	for _, e := range data.Plants {
		entries[e.Key] = e
		keys = append(keys, e.Key)
		parents[e.Key] = make(toposort.Neighbors)
		for _, parent := range []string{e.Seed, e.Pollen} {
			if parent != "" {
				parents[e.Key].Add(parent)
			}
		}
	}

	var errs []error
	for _, key := range toposort.Sort(keys, parents) {
		e := entries[key]
		if imp.alreadyPresent(mdmodel.PlantKind, key, nil, result) {
			continue
		}
		req, err := imp.plantRequest(e, cultivarIDs, speciesIDs)
		if err != nil {
			errs = recordOutcome(imp, mdmodel.PlantKind, key, (*mdmodel.Plant)(nil), err, result, errs)
			continue
		}
		rec, err := imp.target.Plants().SubmitNew(ctx, req)
		errs = recordOutcome(imp, mdmodel.PlantKind, key, rec, err, result, errs)
	}
	return errs
}

func (imp *FileImporter) speciesIDs(ctx context.Context) (map[string]string, error) {
	if err := imp.target.Species().FetchIfNeeded(ctx, false); err != nil {
		return nil, err
	}
	return imp.target.Species().Identifiers(), nil
}

func (imp *FileImporter) plantRequest(e plantEntry, cultivarIDs, speciesIDs map[string]string) (mdmodel.PlantRequest, error) {
	req := mdmodel.PlantRequest{Genetics: e.Genetics, Labels: e.Labels}
	var err error
	if req.CultivarID, err = resolveName(mdmodel.PlantCultivarKind, e.Cultivar, cultivarIDs); err != nil {
		return req, err
	}
	if req.SpeciesID, err = resolveName(mdmodel.PlantSpeciesKind, e.Species, speciesIDs); err != nil {
		return req, err
	}
	for _, parent := range []struct {
		key string
		id  *string
	}{{e.Seed, &req.SeedID}, {e.Pollen, &req.PollenID}} {
		if parent.key == "" {
			continue
		}
		id, ok := imp.created[createdKey(mdmodel.PlantKind, parent.key)]
		if !ok {
			return req, fmt.Errorf("parent plant '%s' was not created", parent.key)
		}
		*parent.id = id
	}
	return req, nil
}

// alreadyPresent reports whether an entry was created by an earlier load or already exists under the
// same name, counting it as skipped if so.
func (imp *FileImporter) alreadyPresent(kind mdmodel.Kind, key string, existing map[string]string, result *Result) bool {
	if _, ok := imp.created[createdKey(kind, key)]; ok {
		result.Skipped++
		return true
	}
	if _, ok := existing[key]; ok {
		result.Skipped++
		return true
	}
	return false
}

func recordOutcome[Rec mdmodel.Record](
	imp *FileImporter,
	kind mdmodel.Kind,
	key string,
	rec *Rec,
	err error,
	result *Result,
	errs []error,
) []error {
	if err != nil || rec == nil {
		if err == nil {
			err = errors.New("no record returned")
		}
		result.Failed++
		return append(errs, fmt.Errorf("%s '%s': %w", kind.DisplayName, key, err))
	}
	imp.created[createdKey(kind, key)] = (*rec).GetID()
	result.Created++
	return errs
}

func resolveName(kind mdmodel.Kind, name string, ids map[string]string) (string, error) {
	if name == "" {
		return "", nil
	}
	id, ok := ids[name]
	if !ok {
		return "", fmt.Errorf("unknown %s '%s'", kind.DisplayName, name)
	}
	return id, nil
}

func createdKey(kind mdmodel.Kind, key string) string {
	return kind.Name + "/" + key
}

func absFilePaths(paths []string) ([]string, error) {
	absPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			// COVERAGE: there's no reliable cross-platform way to simulate an invalid path in unit tests
			return nil, fmt.Errorf("unable to determine absolute path for '%s'", p)
		}
		absPaths = append(absPaths, absPath)
	}
	return absPaths, nil
}

// Close stops the reloader, if any.
func (imp *FileImporter) Close() error {
	imp.closeOnce.Do(func() {
		if imp.closeReloaderCh != nil {
			close(imp.closeReloaderCh)
		}
	})
	return nil
}

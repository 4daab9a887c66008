package mdservices

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mendelcore/go-admin-client/mdmodel"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Messages returned by Backend in {"error": ...} responses.
const (
	NotFoundMessage      = "Not found"
	DuplicateNameMessage = "duplicate name"
	NameRequiredMessage  = "name is required"
)

// ValidationError is returned by the Backend's Create methods when a request is rejected. Over HTTP it
// becomes a 400 response.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

type backendRecord interface {
	mdmodel.Record
	jwriter.Writable
}

type table[Rec backendRecord] struct {
	kind    mdmodel.Kind
	records []Rec
	version int
}

func (t *table[Rec]) find(id string) (Rec, bool) {
	for _, r := range t.records {
		if r.GetID() == id {
			return r, true
		}
	}
	var empty Rec
	return empty, false
}

func (t *table[Rec]) add(rec Rec) {
	t.records = append(t.records, rec)
	t.version++
}

func (t *table[Rec]) etag() string {
	return fmt.Sprintf(`"%s-%d"`, t.kind.Name, t.version)
}

// Backend is an in-memory simulation of the Mendel backend. It serves the three entity paths with the
// same response envelopes as the real API, plus the health endpoint.
//
// List responses carry an ETag and honor If-None-Match, so clients that cache responses can revalidate.
//
//	backend := mdservices.NewBackend()
//	server := httptest.NewServer(backend)
type Backend struct {
	species   table[mdmodel.PlantSpecies]
	cultivars table[mdmodel.PlantCultivar]
	plants    table[mdmodel.Plant]
	router    *mux.Router
	now       func() time.Time
	lock      sync.Mutex
}

// NewBackend creates an empty Backend.
func NewBackend() *Backend {
	b := &Backend{
		species:   table[mdmodel.PlantSpecies]{kind: mdmodel.PlantSpeciesKind},
		cultivars: table[mdmodel.PlantCultivar]{kind: mdmodel.PlantCultivarKind},
		plants:    table[mdmodel.Plant]{kind: mdmodel.PlantKind},
		now:       func() time.Time { return time.Now().UTC() },
	}
	r := mux.NewRouter()
	r.HandleFunc(mdmodel.PathHealth, b.serveHealth).Methods(http.MethodGet)
	registerRoutes(r, b, &b.species, b.createSpeciesLocked)
	registerRoutes(r, b, &b.cultivars, b.createCultivarLocked)
	registerRoutes(r, b, &b.plants, b.createPlantLocked)
	r.NotFoundHandler = ErrorHandler(http.StatusNotFound, NotFoundMessage)
	b.router = r
	return b
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// CreateSpecies adds a species as if it had been posted to the API.
func (b *Backend) CreateSpecies(req mdmodel.PlantSpeciesRequest) (mdmodel.PlantSpecies, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.createSpeciesLocked(req)
}

// CreateCultivar adds a cultivar as if it had been posted to the API.
func (b *Backend) CreateCultivar(req mdmodel.PlantCultivarRequest) (mdmodel.PlantCultivar, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.createCultivarLocked(req)
}

// CreatePlant adds a plant as if it had been posted to the API.
func (b *Backend) CreatePlant(req mdmodel.PlantRequest) (mdmodel.Plant, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.createPlantLocked(req)
}

// Species returns a copy of all species records.
func (b *Backend) Species() []mdmodel.PlantSpecies {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]mdmodel.PlantSpecies(nil), b.species.records...)
}

// Cultivars returns a copy of all cultivar records.
func (b *Backend) Cultivars() []mdmodel.PlantCultivar {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]mdmodel.PlantCultivar(nil), b.cultivars.records...)
}

// Plants returns a copy of all plant records.
func (b *Backend) Plants() []mdmodel.Plant {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]mdmodel.Plant(nil), b.plants.records...)
}

func (b *Backend) createSpeciesLocked(req mdmodel.PlantSpeciesRequest) (mdmodel.PlantSpecies, error) {
	if err := checkName(&b.species, req.Name); err != nil {
		return mdmodel.PlantSpecies{}, err
	}
	now := b.now()
	rec := mdmodel.PlantSpecies{PlantSpeciesRequest: req, ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	b.species.add(rec)
	return rec, nil
}

func (b *Backend) createCultivarLocked(req mdmodel.PlantCultivarRequest) (mdmodel.PlantCultivar, error) {
	if err := checkName(&b.cultivars, req.Name); err != nil {
		return mdmodel.PlantCultivar{}, err
	}
	if err := checkReference(&b.species, "species_id", req.SpeciesID); err != nil {
		return mdmodel.PlantCultivar{}, err
	}
	now := b.now()
	rec := mdmodel.PlantCultivar{PlantCultivarRequest: req, ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	b.cultivars.add(rec)
	return rec, nil
}

func (b *Backend) createPlantLocked(req mdmodel.PlantRequest) (mdmodel.Plant, error) {
	if err := checkReference(&b.cultivars, "cultivar_id", req.CultivarID); err != nil {
		return mdmodel.Plant{}, err
	}
	if err := checkReference(&b.species, "species_id", req.SpeciesID); err != nil {
		return mdmodel.Plant{}, err
	}
	// A plant is one generation past the later of its parents; a plant with no known parents is generation 0.
	generation := uint32(0)
	for field, parentID := range map[string]string{"seed_id": req.SeedID, "pollen_id": req.PollenID} {
		if err := checkReference(&b.plants, field, parentID); err != nil {
			return mdmodel.Plant{}, err
		}
		if parent, ok := b.plants.find(parentID); ok && parent.Generation+1 > generation {
			generation = parent.Generation + 1
		}
	}
	now := b.now()
	rec := mdmodel.Plant{PlantRequest: req, ID: uuid.NewString(), Generation: generation, CreatedAt: now, UpdatedAt: now}
	b.plants.add(rec)
	return rec, nil
}

func checkName[Rec interface {
	backendRecord
	mdmodel.NamedRecord
}](t *table[Rec], name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{NameRequiredMessage}
	}
	for _, r := range t.records {
		if r.GetName() == name {
			return ValidationError{DuplicateNameMessage}
		}
	}
	return nil
}

// An empty reference is allowed; a non-empty one must name an existing record.
func checkReference[Rec backendRecord](t *table[Rec], field, id string) error {
	if id == "" {
		return nil
	}
	if _, ok := t.find(id); !ok {
		return ValidationError{fmt.Sprintf("%s %q does not exist", field, id)}
	}
	return nil
}

func registerRoutes[Req any, PReq interface {
	*Req
	jreader.Readable
}, Rec backendRecord](
	r *mux.Router,
	b *Backend,
	t *table[Rec],
	create func(Req) (Rec, error),
) {
	r.HandleFunc(t.kind.Path, func(w http.ResponseWriter, req *http.Request) {
		b.lock.Lock()
		etag := t.etag()
		body := ListEnvelope(t.records...)
		b.lock.Unlock()

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if req.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}).Methods(http.MethodGet)

	r.HandleFunc(t.kind.Path, func(w http.ResponseWriter, req *http.Request) {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorEnvelope(err.Error()))
			return
		}
		var input Req
		if err := jreader.UnmarshalJSONWithReader(data, PReq(&input)); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorEnvelope(err.Error()))
			return
		}
		b.lock.Lock()
		rec, err := create(input)
		b.lock.Unlock()
		if err != nil {
			status := http.StatusInternalServerError
			var ve ValidationError
			if errors.As(err, &ve) {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, ErrorEnvelope(err.Error()))
			return
		}
		writeJSON(w, http.StatusCreated, DataEnvelope(rec))
	}).Methods(http.MethodPost)

	r.HandleFunc(t.kind.Path+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		b.lock.Lock()
		rec, ok := t.find(mux.Vars(req)["id"])
		b.lock.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, ErrorEnvelope(NotFoundMessage))
			return
		}
		writeJSON(w, http.StatusOK, DataEnvelope(rec))
	}).Methods(http.MethodGet)
}

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status string
}

// WriteToJSONWriter provides JSON serialization for use with the jsonstream API.
func (h HealthStatus) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("status").String(h.Status)
	obj.End()
}

func (b *Backend) serveHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, DataEnvelope(HealthStatus{Status: "ok"}))
}

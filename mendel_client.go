package mendelclient

import (
	"context"
	"errors"
	"time"

	"github.com/mendelcore/go-admin-client/interfaces"
	"github.com/mendelcore/go-admin-client/internal"
	"github.com/mendelcore/go-admin-client/internal/crud"
	"github.com/mendelcore/go-admin-client/internal/endpoints"
	"github.com/mendelcore/go-admin-client/mdcomponents"
	"github.com/mendelcore/go-admin-client/mdmodel"
	"github.com/mendelcore/go-admin-client/mdstore"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// Version is the client version.
const Version = internal.ClientVersion

// healthKind is the metrics label for status requests.
const healthKind = "health"

// PlantStore is the store for Plant records.
type PlantStore = mdstore.Store[mdmodel.PlantRequest, mdmodel.Plant, *mdmodel.Plant]

// CultivarStore is the store for PlantCultivar records.
type CultivarStore = mdstore.NamedStore[mdmodel.PlantCultivarRequest, mdmodel.PlantCultivar, *mdmodel.PlantCultivar]

// SpeciesStore is the store for PlantSpecies records.
type SpeciesStore = mdstore.NamedStore[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies]

// MendelClient is the Mendel client.
//
// Create it with MakeClient. A MendelClient and its stores are safe for concurrent use.
type MendelClient struct {
	plants    *PlantStore
	cultivars *CultivarStore
	species   *SpeciesStore
	requester *crud.Requester
	loggers   ldlog.Loggers
}

// StatusReport describes the backend's health and the state of each store.
type StatusReport struct {
	BaseURL string
	// Healthy is true if the backend answered the health check with a 2xx status.
	Healthy bool
	// StatusCode is the HTTP status of the health check, or 0 if there was no response.
	StatusCode int
	// BackendStatus is the status string reported by the backend, such as "ok".
	BackendStatus string
	// Error is the error message of a failed health check.
	Error   string
	Latency time.Duration
	// Stores is in dependency order: species, cultivars, plants.
	Stores []mdstore.StoreStatus
}

// MakeClient creates a new client instance.
//
// An error is returned only if one of the configured components could not be built. A missing base URL
// is logged as an error but does not prevent the client from being created.
func MakeClient(config Config) (*MendelClient, error) {
	return makeClient(config, nil)
}

func makeClient(config Config, lookupEnv endpoints.EnvLookup) (*MendelClient, error) {
	clientContext, err := newClientContextFromConfig(config, lookupEnv)
	if err != nil {
		return nil, err
	}
	loggers := clientContext.GetLogging().Loggers
	loggers.Infof("Starting Mendel client %s", Version)

	freshnessFactory := config.Freshness
	if freshnessFactory == nil {
		freshnessFactory = mdcomponents.CacheWhileNonEmpty()
	}
	freshness, err := freshnessFactory.Build(clientContext)
	if err != nil {
		return nil, err
	}

	recordCacheFactory := config.RecordCache
	if recordCacheFactory == nil {
		recordCacheFactory = mdcomponents.RecordCache()
	}
	recordCache, err := recordCacheFactory.Build(clientContext)
	if err != nil {
		return nil, err
	}

	options := mdstore.Options{Freshness: freshness, RecordCache: recordCache}
	return &MendelClient{
		plants: mdstore.NewStore[mdmodel.PlantRequest, mdmodel.Plant, *mdmodel.Plant](
			clientContext, mdmodel.PlantKind, options),
		cultivars: mdstore.NewNamedStore[mdmodel.PlantCultivarRequest, mdmodel.PlantCultivar, *mdmodel.PlantCultivar](
			clientContext, mdmodel.PlantCultivarKind, options),
		species: mdstore.NewNamedStore[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies](
			clientContext, mdmodel.PlantSpeciesKind, options),
		requester: crud.NewRequester(clientContext, nil),
		loggers:   loggers,
	}, nil
}

// Plants returns the store for Plant records.
func (client *MendelClient) Plants() *PlantStore {
	return client.plants
}

// Cultivars returns the store for PlantCultivar records.
func (client *MendelClient) Cultivars() *CultivarStore {
	return client.cultivars
}

// Species returns the store for PlantSpecies records.
func (client *MendelClient) Species() *SpeciesStore {
	return client.species
}

// Status checks the backend's health endpoint and summarizes the state of every store.
//
// The report is always filled in. The error is non-nil if the health check failed.
func (client *MendelClient) Status(ctx context.Context) (StatusReport, error) {
	report := StatusReport{
		BaseURL: client.requester.BaseURL(),
		Stores: []mdstore.StoreStatus{
			client.species.Status(),
			client.cultivars.Status(),
			client.plants.Status(),
		},
	}
	started := time.Now()
	resp, err := client.requester.Get(ctx, healthKind, crud.OperationStatus, mdmodel.PathHealth)
	report.Latency = time.Since(started)
	if err != nil {
		var statusErr interfaces.HTTPStatusError
		if errors.As(err, &statusErr) {
			report.StatusCode = statusErr.Code
		}
		report.Error = err.Error()
		client.loggers.Warnf("Health check failed: %s", err)
		return report, err
	}
	report.Healthy = true
	report.StatusCode = resp.StatusCode
	report.BackendStatus = parseHealthStatus(resp.Body)
	return report, nil
}

// Close shuts down the client's stores. Any list listener channels are closed.
func (client *MendelClient) Close() error {
	client.loggers.Info("Closing Mendel client")
	client.plants.Close()
	client.cultivars.Close()
	client.species.Close()
	return nil
}

func parseHealthStatus(body []byte) string {
	var status string
	r := jreader.NewReader(body)
	for obj := r.Object(); obj.Next(); {
		if string(obj.Name()) != "data" {
			continue
		}
		for data := r.ObjectOrNull(); data.Next(); {
			if string(data.Name()) == "status" {
				status, _ = r.StringOrNull()
			}
		}
	}
	return status
}

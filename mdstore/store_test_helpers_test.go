package mdstore

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mendelcore/go-admin-client/internal/sharedtest"
	"github.com/mendelcore/go-admin-client/mdcomponents"
	"github.com/mendelcore/go-admin-client/mdmodel"
	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/stretchr/testify/require"
)

type speciesStore = NamedStore[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies]

type storeTestParams struct {
	store    *speciesStore
	mockLog  *ldlogtest.MockLog
	metrics  *sharedtest.CapturingMetrics
	requests <-chan httphelpers.HTTPRequestInfo
}

func defaultOptions(t *testing.T) Options {
	freshness, err := mdcomponents.CacheWhileNonEmpty().Build(sharedtest.NewSimpleTestContext(""))
	require.NoError(t, err)
	return Options{Freshness: freshness}
}

func withSpeciesStore(t *testing.T, handler http.Handler, options Options, action func(p storeTestParams)) {
	recorder, requests := sharedtest.RecordingBackend(handler)
	httphelpers.WithServer(recorder, func(server *httptest.Server) {
		p := storeTestParams{
			mockLog:  ldlogtest.NewMockLog(),
			metrics:  &sharedtest.CapturingMetrics{},
			requests: requests,
		}
		p.mockLog.Loggers.SetMinLevel(ldlog.Debug)
		clientContext := sharedtest.NewTestContextWithLoggers(server.URL, p.mockLog.Loggers)
		clientContext.Metrics = p.metrics
		p.store = NewNamedStore[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies](
			clientContext, mdmodel.PlantSpeciesKind, options)
		defer p.store.Close()
		action(p)
	})
}

func optionsWithFreshness(t *testing.T, configurer subsystems.ComponentConfigurer[subsystems.FreshnessPolicy]) Options {
	freshness, err := configurer.Build(sharedtest.NewSimpleTestContext(""))
	require.NoError(t, err)
	return Options{Freshness: freshness}
}

package crud

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mendelcore/go-admin-client/internal/sharedtest"
	"github.com/mendelcore/go-admin-client/mdmodel"
	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"
)

type speciesAdapter = Adapter[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies]

type adapterTestParams struct {
	adapter   *speciesAdapter
	requester *Requester
	mockLog   *ldlogtest.MockLog
	metrics   *sharedtest.CapturingMetrics
	requests  <-chan httphelpers.HTTPRequestInfo
	server    *httptest.Server
}

func withSpeciesAdapter(t *testing.T, handler http.Handler, action func(p adapterTestParams)) {
	recorder, requests := sharedtest.RecordingBackend(handler)
	httphelpers.WithServer(recorder, func(server *httptest.Server) {
		p := adapterTestParams{
			mockLog:  ldlogtest.NewMockLog(),
			metrics:  &sharedtest.CapturingMetrics{},
			requests: requests,
			server:   server,
		}
		clientContext := sharedtest.NewTestContextWithLoggers(server.URL, p.mockLog.Loggers)
		clientContext.Metrics = p.metrics
		clientContext.HTTP = subsystems.HTTPConfiguration{DefaultHeaders: http.Header{"User-Agent": {"mendel-test"}}}
		p.requester = NewRequester(clientContext, nil)
		p.adapter = NewAdapter[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies](
			mdmodel.PlantSpeciesKind, p.requester, p.mockLog.Loggers)
		defer p.adapter.FetchAll.Close()
		action(p)
	})
}

// blockingHandler signals on started when a request arrives, then waits for release before
// delegating to handler.
func blockingHandler(handler http.Handler) (h http.Handler, started <-chan struct{}, release chan<- struct{}) {
	startedCh := make(chan struct{}, 10)
	releaseCh := make(chan struct{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedCh <- struct{}{}
		<-releaseCh
		handler.ServeHTTP(w, r)
	}), startedCh, releaseCh
}

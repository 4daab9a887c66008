package crud

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mendelcore/go-admin-client/interfaces"
	"github.com/mendelcore/go-admin-client/internal/sharedtest"
	"github.com/mendelcore/go-admin-client/mdmodel"
	"github.com/mendelcore/go-admin-client/testhelpers/mdservices"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	th "github.com/launchdarkly/go-test-helpers/v3"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"
	"github.com/launchdarkly/go-test-helpers/v3/jsonhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tomatoRequest = mdmodel.PlantSpeciesRequest{Name: "Tomato", Taxon: "Solanum lycopersicum"} //nolint:gochecknoglobals

func TestCreateSuccess(t *testing.T) {
	created := sharedtest.MakeSpecies("s1", "Tomato")
	handler := mdservices.RecordHandler(created)

	withSpeciesAdapter(t, handler, func(p adapterTestParams) {
		rec, err := p.adapter.Create.Run(context.Background(), tomatoRequest)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, created, *rec)

		state := p.adapter.Create.State()
		assert.Equal(t, interfaces.RequestSucceeded, state.Phase())
		value, ok := state.Value()
		assert.True(t, ok)
		assert.Equal(t, rec, value)
		assert.Equal(t, "", state.Error())

		req := <-p.requests
		assert.Equal(t, "POST", req.Request.Method)
		assert.Equal(t, "/plant-species", req.Request.URL.Path)
		assert.Equal(t, "application/json", req.Request.Header.Get("Content-Type"))
		assert.Equal(t, "mendel-test", req.Request.Header.Get("User-Agent"))
		jsonhelpers.AssertEqual(t, `{"name":"Tomato","taxon":"Solanum lycopersicum"}`, string(req.Body))

		assert.Equal(t, []sharedtest.RecordedRequest{{Kind: "plant-species", Operation: OperationCreate, Outcome: "success"}},
			p.metrics.Requests())
	})
}

func TestCreateServerErrorWithMessage(t *testing.T) {
	withSpeciesAdapter(t, mdservices.ErrorHandler(400, "duplicate name"), func(p adapterTestParams) {
		rec, err := p.adapter.Create.Run(context.Background(), tomatoRequest)
		assert.Nil(t, rec)
		require.Error(t, err)

		var statusErr interfaces.HTTPStatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, 400, statusErr.Code)
		assert.Equal(t, "duplicate name", statusErr.Message)

		state := p.adapter.Create.State()
		assert.Equal(t, interfaces.RequestFailed, state.Phase())
		assert.Equal(t, "duplicate name", state.Error())
		_, ok := state.Value()
		assert.False(t, ok)

		p.mockLog.AssertMessageMatch(t, true, ldlog.Error, "Failed to create item")
		assert.Equal(t, "failure", p.metrics.Requests()[0].Outcome)
	})
}

func TestCreateServerErrorWithoutMessage(t *testing.T) {
	for name, handler := range map[string]http.Handler{
		"empty envelope":    httphelpers.HandlerWithResponse(500, nil, []byte(`{}`)),
		"empty message":     mdservices.ErrorHandler(500, ""),
		"non-JSON body":     httphelpers.HandlerWithResponse(502, nil, []byte("Bad Gateway")),
		"non-string error":  httphelpers.HandlerWithResponse(500, nil, []byte(`{"error":{"code":1}}`)),
		"no body at all":    httphelpers.HandlerWithStatus(503),
		"error in an array": httphelpers.HandlerWithResponse(500, nil, []byte(`[{"error":"x"}]`)),
	} {
		t.Run(name, func(t *testing.T) {
			withSpeciesAdapter(t, handler, func(p adapterTestParams) {
				rec, err := p.adapter.Create.Run(context.Background(), tomatoRequest)
				assert.Nil(t, rec)
				require.Error(t, err)
				assert.Equal(t, interfaces.UnknownServerErrorMessage, err.Error())
				assert.Equal(t, interfaces.UnknownServerErrorMessage, p.adapter.Create.State().Error())
			})
		})
	}
}

func TestCreateMalformedSuccessResponse(t *testing.T) {
	for name, body := range map[string]string{
		"not JSON":        "<html>",
		"no data":         `{"result":{}}`,
		"null data":       `{"data":null}`,
		"wrong data type": `{"data":[]}`,
		"bad timestamp":   `{"data":{"id":"s1","created_at":"yesterday"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			handler := httphelpers.HandlerWithResponse(201, nil, []byte(body))
			withSpeciesAdapter(t, handler, func(p adapterTestParams) {
				rec, err := p.adapter.Create.Run(context.Background(), tomatoRequest)
				assert.Nil(t, rec)
				require.Error(t, err)
				var malformed interfaces.MalformedResponseError
				assert.True(t, errors.As(err, &malformed))
				assert.Equal(t, interfaces.RequestFailed, p.adapter.Create.State().Phase())
				assert.Equal(t, err.Error(), p.adapter.Create.State().Error())
			})
		})
	}
}

func TestCreateNetworkError(t *testing.T) {
	var closedServerURL string
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(ts *httptest.Server) {
		closedServerURL = ts.URL
	})
	requester := NewRequester(sharedtest.NewSimpleTestContext(closedServerURL), nil)
	op := NewCreateOperation[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies](
		mdmodel.PlantSpeciesKind, requester, sharedtest.NewTestLoggers())

	rec, err := op.Run(context.Background(), tomatoRequest)
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.Equal(t, err.Error(), op.State().Error())
	assert.False(t, op.State().IsInFlight())
}

func TestCreateMissingBaseURLFailsWithoutPanicking(t *testing.T) {
	requester := NewRequester(sharedtest.NewSimpleTestContext(""), nil)
	op := NewCreateOperation[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies](
		mdmodel.PlantSpeciesKind, requester, sharedtest.NewTestLoggers())

	rec, err := op.Run(context.Background(), tomatoRequest)
	assert.Nil(t, rec)
	assert.Error(t, err)
	assert.Equal(t, interfaces.RequestFailed, op.State().Phase())
}

func TestCreateIsInFlightWithoutStaleErrorWhileRequestIsPending(t *testing.T) {
	handler, started, release := blockingHandler(mdservices.RecordHandler(sharedtest.MakeSpecies("s1", "Tomato")))
	handler = httphelpers.SequentialHandler(mdservices.ErrorHandler(400, "duplicate name"), handler)

	withSpeciesAdapter(t, handler, func(p adapterTestParams) {
		_, err := p.adapter.Create.Run(context.Background(), tomatoRequest)
		require.Error(t, err)
		require.Equal(t, "duplicate name", p.adapter.Create.State().Error())

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = p.adapter.Create.Run(context.Background(), tomatoRequest)
		}()
		th.RequireValue(t, started, time.Second)

		state := p.adapter.Create.State()
		assert.True(t, state.IsInFlight())
		assert.Equal(t, "", state.Error())

		close(release)
		th.AssertChannelClosed(t, done, time.Second)
		assert.Equal(t, interfaces.RequestSucceeded, p.adapter.Create.State().Phase())
	})
}

func TestCreateCanceledByContext(t *testing.T) {
	handler, started, release := blockingHandler(httphelpers.HandlerWithStatus(200))

	withSpeciesAdapter(t, handler, func(p adapterTestParams) {
		defer close(release)
		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			_, err := p.adapter.Create.Run(ctx, tomatoRequest)
			errCh <- err
		}()
		th.RequireValue(t, started, time.Second)
		cancel()

		err := th.RequireValue(t, errCh, time.Second)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, interfaces.RequestFailed, p.adapter.Create.State().Phase())
	})
}

func TestCreateClearError(t *testing.T) {
	withSpeciesAdapter(t, mdservices.ErrorHandler(400, "duplicate name"), func(p adapterTestParams) {
		_, _ = p.adapter.Create.Run(context.Background(), tomatoRequest)
		p.adapter.Create.ClearError()
		assert.Equal(t, interfaces.RequestIdle, p.adapter.Create.State().Phase())
		assert.Equal(t, "", p.adapter.Create.State().Error())
	})
}

func TestCreateLogsRequestBodyOnlyWhenEnabled(t *testing.T) {
	for _, logBodies := range []bool{false, true} {
		httphelpers.WithServer(mdservices.RecordHandler(sharedtest.MakeSpecies("s1", "Tomato")), func(server *httptest.Server) {
			mockLog := ldlogtest.NewMockLog()
			mockLog.Loggers.SetMinLevel(ldlog.Debug)
			clientContext := sharedtest.NewTestContextWithLoggers(server.URL, mockLog.Loggers)
			clientContext.Logging.LogRequestBodies = logBodies
			op := NewCreateOperation[mdmodel.PlantSpeciesRequest, mdmodel.PlantSpecies, *mdmodel.PlantSpecies](
				mdmodel.PlantSpeciesKind, NewRequester(clientContext, nil), mockLog.Loggers)

			_, err := op.Run(context.Background(), tomatoRequest)
			require.NoError(t, err)
			mockLog.AssertMessageMatch(t, true, ldlog.Debug, "POST "+server.URL+"/plant-species")
			mockLog.AssertMessageMatch(t, logBodies, ldlog.Debug, "Solanum lycopersicum")
		})
	}
}

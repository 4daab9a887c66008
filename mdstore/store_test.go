package mdstore

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/mendelcore/go-admin-client/interfaces"
	"github.com/mendelcore/go-admin-client/internal/sharedtest"
	"github.com/mendelcore/go-admin-client/mdcomponents"
	"github.com/mendelcore/go-admin-client/mdmodel"
	"github.com/mendelcore/go-admin-client/subsystems"
	"github.com/mendelcore/go-admin-client/testhelpers/mdservices"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	th "github.com/launchdarkly/go-test-helpers/v3"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormTitleAndID(t *testing.T) {
	withSpeciesStore(t, mdservices.NewBackend(), defaultOptions(t), func(p storeTestParams) {
		assert.Equal(t, "Creating a Plant Species", p.store.FormTitle())
		assert.Equal(t, "plant-species-form", p.store.FormID())
		assert.Equal(t, mdmodel.PlantSpeciesKind, p.store.Kind())
	})
}

func TestSubmitNewClosesFormAndAppendsRecord(t *testing.T) {
	withSpeciesStore(t, mdservices.NewBackend(), defaultOptions(t), func(p storeTestParams) {
		p.store.ShowForm()
		require.True(t, p.store.FormActive())

		rec, err := p.store.SubmitNew(context.Background(), mdmodel.PlantSpeciesRequest{Name: "Tomato", Taxon: "Solanum"})
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.NotEqual(t, "", rec.ID)
		assert.Equal(t, "Tomato", rec.Name)

		assert.False(t, p.store.FormActive())
		list, present := p.store.List()
		assert.True(t, present)
		assert.Equal(t, []mdmodel.PlantSpecies{*rec}, list)

		created, ok := p.store.CreateState().Value()
		require.True(t, ok)
		assert.Equal(t, rec.ID, (*created).ID)
	})
}

func TestSubmitNewGrowsListByExactlyOne(t *testing.T) {
	backend := mdservices.NewBackend()
	_, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Pepper"})
	require.NoError(t, err)

	withSpeciesStore(t, backend, defaultOptions(t), func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		before, _ := p.store.List()

		rec, err := p.store.SubmitNew(context.Background(), mdmodel.PlantSpeciesRequest{Name: "Tomato"})
		require.NoError(t, err)

		after, _ := p.store.List()
		require.Len(t, after, len(before)+1)
		assert.Equal(t, *rec, after[len(after)-1])
	})
}

func TestSubmitNewFailureKeepsFormOpenAndListUnchanged(t *testing.T) {
	backend := mdservices.NewBackend()
	_, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Tomato"})
	require.NoError(t, err)

	withSpeciesStore(t, backend, defaultOptions(t), func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		before, _ := p.store.List()
		p.store.ShowForm()

		rec, err := p.store.SubmitNew(context.Background(), mdmodel.PlantSpeciesRequest{Name: "Tomato"})
		assert.Nil(t, rec)
		var statusErr interfaces.HTTPStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadRequest, statusErr.Code)

		assert.Equal(t, mdservices.DuplicateNameMessage, p.store.CreateState().Error())
		assert.True(t, p.store.FormActive())
		after, _ := p.store.List()
		assert.Equal(t, before, after)
	})
}

func TestSubmitNewFailureLeavesAbsentListAbsent(t *testing.T) {
	handler := mdservices.ErrorHandler(http.StatusBadRequest, "duplicate name")
	withSpeciesStore(t, handler, defaultOptions(t), func(p storeTestParams) {
		_, err := p.store.SubmitNew(context.Background(), mdmodel.PlantSpeciesRequest{Name: "Tomato"})
		require.Error(t, err)
		_, present := p.store.List()
		assert.False(t, present)
	})
}

func TestExitFormAlwaysClearsCreateError(t *testing.T) {
	t.Run("when idle", func(t *testing.T) {
		withSpeciesStore(t, mdservices.NewBackend(), defaultOptions(t), func(p storeTestParams) {
			p.store.ExitForm()
			assert.Equal(t, interfaces.RequestIdle, p.store.CreateState().Phase())
			assert.Equal(t, "", p.store.CreateState().Error())
			assert.False(t, p.store.FormActive())
		})
	})

	t.Run("after a failure", func(t *testing.T) {
		handler := mdservices.ErrorHandler(http.StatusBadRequest, "name is required")
		withSpeciesStore(t, handler, defaultOptions(t), func(p storeTestParams) {
			p.store.ShowForm()
			_, _ = p.store.SubmitNew(context.Background(), mdmodel.PlantSpeciesRequest{})
			require.Equal(t, "name is required", p.store.CreateState().Error())

			p.store.ExitForm()
			assert.Equal(t, "", p.store.CreateState().Error())
			assert.Equal(t, interfaces.RequestIdle, p.store.CreateState().Phase())
			assert.False(t, p.store.FormActive())

			p.store.ExitForm()
			assert.Equal(t, "", p.store.CreateState().Error())
		})
	})
}

func TestFetchIfNeededSkipsNetworkForNonEmptyList(t *testing.T) {
	backend := mdservices.NewBackend()
	_, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Tomato"})
	require.NoError(t, err)

	withSpeciesStore(t, backend, defaultOptions(t), func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		assert.Len(t, p.requests, 1)

		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		assert.Len(t, p.requests, 1)
		p.mockLog.AssertMessageMatch(t, true, ldlog.Debug, "Using cached Plant Species list.")
		assert.Equal(t, []sharedtest.RecordedCacheHit{{Kind: "plant-species", Cache: ListCache}}, p.metrics.CacheHits())

		require.NoError(t, p.store.FetchIfNeeded(context.Background(), true))
		assert.Len(t, p.requests, 2)
	})
}

func TestForcedFetchReachesBackendEvenWithFreshnessHeaders(t *testing.T) {
	headers := http.Header{"Cache-Control": {"max-age=3600"}, "Etag": {`"v1"`}}
	body := []byte(`{"data":[{"id":"s1","name":"Tomato","taxon":"Solanum lycopersicum"}]}`)
	handler := httphelpers.HandlerWithResponse(http.StatusOK, headers, body)

	withSpeciesStore(t, handler, defaultOptions(t), func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), true))
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), true))
		require.Len(t, p.requests, 2)

		<-p.requests
		second := <-p.requests
		assert.Equal(t, "max-age=0", second.Request.Header.Get("Cache-Control"))
		assert.Equal(t, `"v1"`, second.Request.Header.Get("If-None-Match"))

		list, present := p.store.List()
		assert.True(t, present)
		assert.Len(t, list, 1)
	})
}

func TestFetchIfNeededAlwaysFetchesEmptyList(t *testing.T) {
	withSpeciesStore(t, mdservices.NewBackend(), defaultOptions(t), func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		assert.Len(t, p.requests, 2)

		list, present := p.store.List()
		assert.True(t, present)
		assert.Len(t, list, 0)
	})
}

func TestFailedFetchDiscardsList(t *testing.T) {
	handler := httphelpers.SequentialHandler(
		mdservices.ListHandler(sharedtest.MakeSpecies("s1", "Tomato")),
		mdservices.ErrorHandler(http.StatusInternalServerError, "database unavailable"),
	)
	withSpeciesStore(t, handler, defaultOptions(t), func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		list, _ := p.store.List()
		require.Len(t, list, 1)

		err := p.store.FetchIfNeeded(context.Background(), true)
		require.Error(t, err)

		_, present := p.store.List()
		assert.False(t, present)
		assert.Equal(t, "database unavailable", p.store.FetchState().Error())
		assert.Len(t, p.store.Identifiers(), 0)
	})
}

func TestTTLFreshness(t *testing.T) {
	backend := mdservices.NewBackend()
	options := optionsWithFreshness(t, mdcomponents.CacheForTTL(time.Hour))

	withSpeciesStore(t, backend, options, func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		assert.Len(t, p.requests, 1, "an empty list is fresh under a TTL policy")
	})
}

func TestZeroTTLIsNeverFresh(t *testing.T) {
	backend := mdservices.NewBackend()
	_, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Tomato"})
	require.NoError(t, err)
	options := optionsWithFreshness(t, mdcomponents.CacheForTTL(0))

	withSpeciesStore(t, backend, options, func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		assert.Len(t, p.requests, 2)
	})
}

func TestInvalidateForcesNextFetch(t *testing.T) {
	backend := mdservices.NewBackend()
	_, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Tomato"})
	require.NoError(t, err)

	withSpeciesStore(t, backend, defaultOptions(t), func(p storeTestParams) {
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		ch := p.store.AddListListener()

		p.store.Invalidate()
		change := th.RequireValue(t, ch, time.Second)
		assert.Equal(t, interfaces.ListInvalidated, change.Reason)
		assert.True(t, change.Present)

		list, present := p.store.List()
		assert.True(t, present)
		assert.Len(t, list, 1)

		_, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Pepper"})
		require.NoError(t, err)
		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		assert.Len(t, p.requests, 2)
		list, _ = p.store.List()
		assert.Len(t, list, 2)

		require.NoError(t, p.store.FetchIfNeeded(context.Background(), false))
		assert.Len(t, p.requests, 2)
	})
}

func TestListListenersSeeAppends(t *testing.T) {
	withSpeciesStore(t, mdservices.NewBackend(), defaultOptions(t), func(p storeTestParams) {
		ch := p.store.AddListListener()
		_, err := p.store.SubmitNew(context.Background(), mdmodel.PlantSpeciesRequest{Name: "Tomato"})
		require.NoError(t, err)

		change := th.RequireValue(t, ch, time.Second)
		assert.Equal(t, interfaces.ListAppended, change.Reason)
		assert.Equal(t, "plant-species", change.Kind)
		assert.Equal(t, 1, change.Size)

		p.store.RemoveListListener(ch)
		th.AssertChannelClosed(t, ch, time.Second)
	})
}

func TestGetUsesRecordCache(t *testing.T) {
	backend := mdservices.NewBackend()
	species, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Tomato"})
	require.NoError(t, err)
	options := defaultOptions(t)
	options.RecordCache = subsystems.RecordCacheConfiguration{Size: 10, TTL: time.Minute}

	withSpeciesStore(t, backend, options, func(p storeTestParams) {
		rec, err := p.store.Get(context.Background(), species.ID)
		require.NoError(t, err)
		assert.Equal(t, species, *rec)
		assert.Len(t, p.requests, 1)

		rec.Name = "changed"
		again, err := p.store.Get(context.Background(), species.ID)
		require.NoError(t, err)
		assert.Equal(t, species, *again)
		assert.Len(t, p.requests, 1)
		assert.Equal(t, []sharedtest.RecordedCacheHit{{Kind: "plant-species", Cache: RecordCache}}, p.metrics.CacheHits())

		_, present := p.store.List()
		assert.False(t, present, "Get must not touch the cached list")
	})
}

func TestGetFindsRecordsCreatedThroughStore(t *testing.T) {
	options := defaultOptions(t)
	options.RecordCache = subsystems.RecordCacheConfiguration{Size: 10, TTL: time.Minute}

	withSpeciesStore(t, mdservices.NewBackend(), options, func(p storeTestParams) {
		rec, err := p.store.SubmitNew(context.Background(), mdmodel.PlantSpeciesRequest{Name: "Tomato"})
		require.NoError(t, err)
		require.Len(t, p.requests, 1)

		got, err := p.store.Get(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.Equal(t, *rec, *got)
		assert.Len(t, p.requests, 1)
	})
}

func TestGetWithoutRecordCacheAlwaysRequests(t *testing.T) {
	backend := mdservices.NewBackend()
	species, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Tomato"})
	require.NoError(t, err)

	withSpeciesStore(t, backend, defaultOptions(t), func(p storeTestParams) {
		for i := 0; i < 2; i++ {
			_, err := p.store.Get(context.Background(), species.ID)
			require.NoError(t, err)
		}
		assert.Len(t, p.requests, 2)
		assert.Len(t, p.metrics.CacheHits(), 0)
	})
}

func TestGetNotFound(t *testing.T) {
	withSpeciesStore(t, mdservices.NewBackend(), defaultOptions(t), func(p storeTestParams) {
		rec, err := p.store.Get(context.Background(), "no-such-id")
		assert.Nil(t, rec)
		var statusErr interfaces.HTTPStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
		assert.Equal(t, mdservices.NotFoundMessage, p.store.GetState().Error())
	})
}

func TestInvalidateClearsRecordCache(t *testing.T) {
	backend := mdservices.NewBackend()
	species, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Tomato"})
	require.NoError(t, err)
	options := defaultOptions(t)
	options.RecordCache = subsystems.RecordCacheConfiguration{Size: 10, TTL: time.Minute}

	withSpeciesStore(t, backend, options, func(p storeTestParams) {
		_, err := p.store.Get(context.Background(), species.ID)
		require.NoError(t, err)
		p.store.Invalidate()
		_, err = p.store.Get(context.Background(), species.ID)
		require.NoError(t, err)
		assert.Len(t, p.requests, 2)
	})
}

func TestGetAfterCloseDoesNotPanic(t *testing.T) {
	backend := mdservices.NewBackend()
	species, err := backend.CreateSpecies(mdmodel.PlantSpeciesRequest{Name: "Tomato"})
	require.NoError(t, err)
	options := defaultOptions(t)
	options.RecordCache = subsystems.RecordCacheConfiguration{Size: 10, TTL: time.Minute}

	withSpeciesStore(t, backend, options, func(p storeTestParams) {
		p.store.Close()
		rec, err := p.store.Get(context.Background(), species.ID)
		require.NoError(t, err)
		assert.Equal(t, species.ID, rec.ID)
	})
}

func TestStatusSummarizesStore(t *testing.T) {
	handler := mdservices.ErrorHandler(http.StatusServiceUnavailable, "backend is down")
	withSpeciesStore(t, handler, defaultOptions(t), func(p storeTestParams) {
		p.store.ShowForm()
		_ = p.store.FetchIfNeeded(context.Background(), false)

		status := p.store.Status()
		assert.Equal(t, mdmodel.PlantSpeciesKind, status.Kind)
		assert.False(t, status.ListPresent)
		assert.True(t, status.FormActive)
		assert.Equal(t, interfaces.RequestIdle, status.Create)
		assert.Equal(t, interfaces.RequestFailed, status.FetchAll)
		assert.Equal(t, interfaces.RequestIdle, status.FetchOne)
		assert.Equal(t, "backend is down", status.LastError)
	})
}

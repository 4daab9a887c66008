package mdfilewatch

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	mendelclient "github.com/mendelcore/go-admin-client"
	"github.com/mendelcore/go-admin-client/internal/sharedtest"
	"github.com/mendelcore/go-admin-client/mdcomponents"
	"github.com/mendelcore/go-admin-client/mdfiledata"
	"github.com/mendelcore/go-admin-client/testhelpers/mdservices"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	th "github.com/launchdarkly/go-test-helpers/v3"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replaceFileContents(t *testing.T, filename string, text string) {
	require.NoError(t, os.WriteFile(filename, []byte(text), 0600))
}

func speciesNames(backend *mdservices.Backend) []string {
	var ret []string
	for _, s := range backend.Species() {
		ret = append(ret, s.Name)
	}
	return ret
}

func withWatchedImporter(t *testing.T, filePath string, action func(backend *mdservices.Backend)) {
	backend := mdservices.NewBackend()
	httphelpers.WithServer(backend, func(server *httptest.Server) {
		client, err := mendelclient.MakeClient(mendelclient.Config{
			BaseURL: server.URL,
			Logging: mdcomponents.NoLogging(),
		})
		require.NoError(t, err)
		defer client.Close()

		importer, err := mdfiledata.Importer().FilePaths(filePath).Reloader(WatchFiles).
			Build(client, sharedtest.NewTestLoggers())
		require.NoError(t, err)
		defer importer.Close()

		_ = importer.Start(context.Background())
		action(backend)
	})
}

func TestChangedFileIsReimported(t *testing.T) {
	th.WithTempDir(func(dir string) {
		filePath := filepath.Join(dir, "garden.yml")
		replaceFileContents(t, filePath, "species:\n  - name: Tomato\n")

		withWatchedImporter(t, filePath, func(backend *mdservices.Backend) {
			assert.Equal(t, []string{"Tomato"}, speciesNames(backend))

			replaceFileContents(t, filePath, "species:\n  - name: Tomato\n  - name: Pepper\n")
			assert.Eventually(t, func() bool { return len(backend.Species()) == 2 }, 2*time.Second, 50*time.Millisecond)
			assert.Equal(t, []string{"Tomato", "Pepper"}, speciesNames(backend))
		})
	})
}

// File need not exist when the importer is started
func TestWatchedFileMissing(t *testing.T) {
	th.WithTempDir(func(dir string) {
		filePath := filepath.Join(dir, "garden.yml")

		withWatchedImporter(t, filePath, func(backend *mdservices.Backend) {
			assert.Len(t, backend.Species(), 0)

			time.Sleep(100 * time.Millisecond)
			replaceFileContents(t, filePath, "species:\n  - name: Tomato\n")
			assert.Eventually(t, func() bool { return len(backend.Species()) == 1 }, 2*time.Second, 50*time.Millisecond)
		})
	})
}

// Directory needn't exist when the importer is started
func TestWatchedDirectoryMissing(t *testing.T) {
	th.WithTempDir(func(tempDir string) {
		dirPath := filepath.Join(tempDir, "imports")
		filePath := filepath.Join(dirPath, "garden.yml")

		withWatchedImporter(t, filePath, func(backend *mdservices.Backend) {
			time.Sleep(100 * time.Millisecond)
			require.NoError(t, os.Mkdir(dirPath, 0700))

			time.Sleep(retryInterval + 200*time.Millisecond)
			replaceFileContents(t, filePath, "species:\n  - name: Tomato\n")
			assert.Eventually(t, func() bool { return len(backend.Species()) == 1 }, 3*time.Second, 50*time.Millisecond)
		})
	})
}

func TestWatcherStopsWhenClosed(t *testing.T) {
	th.WithTempDir(func(dir string) {
		filePath := filepath.Join(dir, "garden.yml")
		replaceFileContents(t, filePath, "species: []\n")

		reloads := make(chan struct{}, 10)
		closeCh := make(chan struct{})
		require.NoError(t, WatchFiles([]string{filePath}, sharedtest.NewTestLoggers(),
			func() { reloads <- struct{}{} }, closeCh))
		th.RequireValue(t, reloads, time.Second)

		close(closeCh)
		time.Sleep(100 * time.Millisecond)
		replaceFileContents(t, filePath, "species:\n  - name: Tomato\n")
		th.AssertNoMoreValues(t, reloads, 300*time.Millisecond)
	})
}

func watchForReloads(t *testing.T, filePath string, loggers ldlog.Loggers) (<-chan struct{}, chan<- struct{}) {
	reloads := make(chan struct{}, 10)
	closeCh := make(chan struct{})
	require.NoError(t, WatchFiles([]string{filePath}, loggers, func() { reloads <- struct{}{} }, closeCh))
	th.RequireValue(t, reloads, time.Second)
	return reloads, closeCh
}

func TestUnchangedContentsDoNotReload(t *testing.T) {
	th.WithTempDir(func(dir string) {
		filePath := filepath.Join(dir, "garden.yml")
		replaceFileContents(t, filePath, "species:\n  - name: Tomato\n")
		reloads, closeCh := watchForReloads(t, filePath, sharedtest.NewTestLoggers())
		defer close(closeCh)

		replaceFileContents(t, filePath, "species:\n  - name: Tomato\n")
		th.AssertNoMoreValues(t, reloads, settleDelay+300*time.Millisecond)

		replaceFileContents(t, filePath, "species:\n  - name: Pepper\n")
		th.RequireValue(t, reloads, 2*time.Second)
	})
}

func TestRapidWritesCauseOneReload(t *testing.T) {
	th.WithTempDir(func(dir string) {
		filePath := filepath.Join(dir, "garden.yml")
		replaceFileContents(t, filePath, "species: []\n")
		reloads, closeCh := watchForReloads(t, filePath, sharedtest.NewTestLoggers())
		defer close(closeCh)

		for _, name := range []string{"Tomato", "Pepper", "Squash"} {
			replaceFileContents(t, filePath, "species:\n  - name: "+name+"\n")
		}
		th.RequireValue(t, reloads, 2*time.Second)
		th.AssertNoMoreValues(t, reloads, settleDelay+300*time.Millisecond)
	})
}

func TestOtherFilesInDirectoryAreIgnored(t *testing.T) {
	th.WithTempDir(func(dir string) {
		filePath := filepath.Join(dir, "garden.yml")
		replaceFileContents(t, filePath, "species: []\n")
		reloads, closeCh := watchForReloads(t, filePath, sharedtest.NewTestLoggers())
		defer close(closeCh)

		replaceFileContents(t, filepath.Join(dir, "notes.txt"), "water on Tuesday")
		th.AssertNoMoreValues(t, reloads, settleDelay+300*time.Millisecond)
	})
}

func TestChangedFileIsLoggedByName(t *testing.T) {
	th.WithTempDir(func(dir string) {
		filePath := filepath.Join(dir, "garden.yml")
		replaceFileContents(t, filePath, "species: []\n")
		mockLog := ldlogtest.NewMockLog()
		reloads, closeCh := watchForReloads(t, filePath, mockLog.Loggers)
		defer close(closeCh)

		replaceFileContents(t, filePath, "species:\n  - name: Tomato\n")
		th.RequireValue(t, reloads, 2*time.Second)
		mockLog.AssertMessageMatch(t, true, ldlog.Info, "Import file .*garden\\.yml changed")

		require.NoError(t, os.Remove(filePath))
		th.RequireValue(t, reloads, 2*time.Second)
		mockLog.AssertMessageMatch(t, true, ldlog.Warn, "Import file .*garden\\.yml is not readable")
	})
}

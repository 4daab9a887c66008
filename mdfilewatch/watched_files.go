package mdfilewatch

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/fsnotify/fsnotify"
)

const (
	retryInterval = time.Second
	// Editors often write a file in several steps. Events for the import files are coalesced until
	// they have been quiet for this long, so one save causes one import.
	settleDelay = 100 * time.Millisecond
)

// importFile is one watched import file. sum is nil while the file does not exist.
type importFile struct {
	path     string
	realPath string
	sum      []byte
}

type importWatcher struct {
	watcher *fsnotify.Watcher
	loggers ldlog.Loggers
	reload  func()
	files   []*importFile
}

// WatchFiles sets up a mechanism for the file importer to rerun the import whenever the contents of one
// of its files have changed. Use it as follows:
//
//	importer, err := mdfiledata.Importer().
//		FilePaths("./garden.yml").
//		Reloader(mdfilewatch.WatchFiles).
//		Build(client, loggers)
//
// The parent directory of each file is watched, so files and directories that do not exist yet are
// picked up once they are created. Saving a file without changing its contents does not rerun the
// import.
func WatchFiles(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	w := &importWatcher{
		watcher: watcher,
		loggers: loggers,
		reload:  reload,
	}
	for _, p := range paths {
		w.files = append(w.files, &importFile{path: filepath.Clean(p)})
	}
	go w.run(closeCh)
	return nil
}

func (w *importWatcher) run(closeCh <-chan struct{}) {
	var retryCh, settleCh <-chan time.Time
	if !w.addWatches() {
		retryCh = time.After(retryInterval)
	}
	// Importing once here, after the watches exist, covers any change made before they were set up.
	w.checkFiles()
	w.reload()

	for {
		select {
		case <-closeCh:
			if err := w.watcher.Close(); err != nil {
				w.loggers.Errorf("Error closing file watcher: %s", err)
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.isImportFile(event.Name) {
				settleCh = time.After(settleDelay)
			}
		case err, ok := <-w.watcher.Errors:
			if ok {
				w.loggers.Errorf("File watcher error: %s", err)
			}
		case <-retryCh:
			retryCh = nil
			if !w.addWatches() {
				retryCh = time.After(retryInterval)
			}
			if w.checkFiles() {
				w.reload()
			}
		case <-settleCh:
			settleCh = nil
			if w.checkFiles() {
				w.reload()
			}
		}
	}
}

// addWatches watches the directory of every import file, and reports whether all of them could be
// watched.
func (w *importWatcher) addWatches() bool {
	ok := true
	for _, f := range w.files {
		dir := filepath.Dir(f.path)
		realDir, err := filepath.EvalSymlinks(dir)
		if err != nil {
			w.loggers.Debugf("Import directory %s is not available yet: %s", dir, err)
			ok = false
			continue
		}
		f.realPath = filepath.Join(realDir, filepath.Base(f.path))
		if err := w.watcher.Add(realDir); err != nil {
			w.loggers.Errorf("Unable to watch import directory %s: %s", realDir, err)
			ok = false
		}
	}
	return ok
}

func (w *importWatcher) isImportFile(name string) bool {
	name = filepath.Clean(name)
	for _, f := range w.files {
		if name == f.path || name == f.realPath {
			return true
		}
	}
	return false
}

// checkFiles updates the content checksum of every file and reports whether any of them changed.
func (w *importWatcher) checkFiles() bool {
	changed := false
	for _, f := range w.files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			if f.sum != nil || !errors.Is(err, fs.ErrNotExist) {
				w.loggers.Warnf("Import file %s is not readable: %s", f.path, err)
			}
			if f.sum != nil {
				changed = true
			}
			f.sum = nil
			continue
		}
		sum := sha256.Sum256(data)
		if !bytes.Equal(f.sum, sum[:]) {
			if f.sum != nil {
				w.loggers.Infof("Import file %s changed", f.path)
			}
			f.sum = sum[:]
			changed = true
		}
	}
	return changed
}

package mdfiledata

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// ReloaderFactory is a function type used with ImporterBuilder.Reloader, to specify a mechanism for
// detecting when import files should be reloaded. Its standard implementation is in the mdfilewatch package.
type ReloaderFactory func(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error

// DuplicateEntriesHandling is a parameter type used with ImporterBuilder.DuplicateEntriesHandling.
type DuplicateEntriesHandling string

const (
	// DuplicateEntriesFail is an option for ImporterBuilder.DuplicateEntriesHandling, meaning that loading
	// should fail if a name or key is used more than once. This is the default behavior.
	DuplicateEntriesFail DuplicateEntriesHandling = "fail"

	// DuplicateEntriesIgnoreAllButFirst is an option for ImporterBuilder.DuplicateEntriesHandling, meaning
	// that if a name or key is used more than once, the first occurrence will be used.
	DuplicateEntriesIgnoreAllButFirst DuplicateEntriesHandling = "ignore"
)

// ImporterBuilder is a builder for configuring a file importer.
//
// Obtain an instance of this type by calling Importer(). Builder calls can be chained, for example:
//
//	importer, err := mdfiledata.Importer().FilePaths("file1").FilePaths("file2").Build(client, loggers)
type ImporterBuilder struct {
	filePaths                []string
	duplicateEntriesHandling DuplicateEntriesHandling
	reloaderFactory          ReloaderFactory
}

// Importer returns a configurable builder for a file importer.
func Importer() *ImporterBuilder {
	return &ImporterBuilder{duplicateEntriesHandling: DuplicateEntriesFail}
}

// DuplicateEntriesHandling specifies how to handle names or keys that are used more than once.
//
// If this is not specified, or if you set it to an unrecognized value, the default is DuplicateEntriesFail.
func (b *ImporterBuilder) DuplicateEntriesHandling(handling DuplicateEntriesHandling) *ImporterBuilder {
	b.duplicateEntriesHandling = handling
	return b
}

// FilePaths specifies the input files. The paths may be any number of absolute or relative file paths.
func (b *ImporterBuilder) FilePaths(paths ...string) *ImporterBuilder {
	b.filePaths = append(b.filePaths, paths...)
	return b
}

// Reloader specifies a mechanism for reloading import files.
//
// It is normally used with the mdfilewatch package, as follows:
//
//	importer, err := mdfiledata.Importer().
//		FilePaths(filePaths...).
//		Reloader(mdfilewatch.WatchFiles).
//		Build(client, loggers)
func (b *ImporterBuilder) Reloader(reloaderFactory ReloaderFactory) *ImporterBuilder {
	b.reloaderFactory = reloaderFactory
	return b
}

// Build creates the importer. Nothing is read until Start or Load is called.
func (b *ImporterBuilder) Build(target Target, loggers ldlog.Loggers) (*FileImporter, error) {
	handling := b.duplicateEntriesHandling
	if handling != DuplicateEntriesIgnoreAllButFirst {
		handling = DuplicateEntriesFail
	}
	return newFileImporter(target, loggers, b.filePaths, handling, b.reloaderFactory)
}

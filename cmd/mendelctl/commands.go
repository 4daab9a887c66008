package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	mendelclient "github.com/mendelcore/go-admin-client"
	"github.com/mendelcore/go-admin-client/mdfiledata"
	"github.com/mendelcore/go-admin-client/mdfilewatch"
	"github.com/mendelcore/go-admin-client/mdmodel"
	"github.com/mendelcore/go-admin-client/mdstore"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const usage = `usage: mendelctl <command> [arguments]

commands:
  list <kind> [-force]        print every record of a kind, one JSON object per line
  lookup <kind>               print the name-to-id table of a cultivar or species kind
  get <kind> <id>             print one record
  create <kind> -json '{...}' create a record
  import [-watch] [-ignore-duplicates] FILE...
                              create the records described by YAML or JSON files
  status                      check the backend and print the state of each store

kinds: plant, cultivar, species
`

var errUsage = errors.New("invalid arguments")

type command struct {
	client   *mendelclient.MendelClient
	loggers  ldlog.Loggers
	registry *prometheus.Registry
	metrics  string
	out      io.Writer
}

func (c *command) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	name, rest := args[0], args[1:]
	switch name {
	case "list":
		return c.list(ctx, rest)
	case "lookup":
		return c.lookup(ctx, rest)
	case "get":
		return c.get(ctx, rest)
	case "create":
		return c.create(ctx, rest)
	case "import":
		return c.importFiles(ctx, rest)
	case "status":
		return c.status(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func parseKind(args []string) (mdmodel.Kind, []string, error) {
	if len(args) == 0 {
		return mdmodel.Kind{}, nil, fmt.Errorf("%w: missing kind", errUsage)
	}
	kind, ok := mdmodel.KindByName(args[0])
	if !ok {
		return kind, nil, fmt.Errorf("%w: unknown kind %q", errUsage, args[0])
	}
	return kind, args[1:], nil
}

func (c *command) list(ctx context.Context, args []string) error {
	kind, rest, err := parseKind(args)
	if err != nil {
		return err
	}
	flags := flag.NewFlagSet("list", flag.ContinueOnError)
	force := flags.Bool("force", false, "fetch even if the cached list is fresh")
	if err := flags.Parse(rest); err != nil {
		return fmt.Errorf("%w: %s", errUsage, err)
	}
	switch kind {
	case mdmodel.PlantKind:
		return listRecords(ctx, c.client.Plants(), *force, c.out)
	case mdmodel.PlantCultivarKind:
		return listRecords(ctx, c.client.Cultivars().Store, *force, c.out)
	default:
		return listRecords(ctx, c.client.Species().Store, *force, c.out)
	}
}

func (c *command) lookup(ctx context.Context, args []string) error {
	kind, _, err := parseKind(args)
	if err != nil {
		return err
	}
	var ids map[string]string
	switch kind {
	case mdmodel.PlantCultivarKind:
		if err := c.client.Cultivars().FetchIfNeeded(ctx, false); err != nil {
			return err
		}
		ids = c.client.Cultivars().Identifiers()
	case mdmodel.PlantSpeciesKind:
		if err := c.client.Species().FetchIfNeeded(ctx, false); err != nil {
			return err
		}
		ids = c.client.Species().Identifiers()
	default:
		return fmt.Errorf("%w: %s records have no names", errUsage, kind.DisplayName)
	}
	names := maps.Keys(ids)
	slices.Sort(names)
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, ids[name])
	}
	return tw.Flush()
}

func (c *command) get(ctx context.Context, args []string) error {
	kind, rest, err := parseKind(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: get needs exactly one id", errUsage)
	}
	switch kind {
	case mdmodel.PlantKind:
		return getRecord(ctx, c.client.Plants(), rest[0], c.out)
	case mdmodel.PlantCultivarKind:
		return getRecord(ctx, c.client.Cultivars().Store, rest[0], c.out)
	default:
		return getRecord(ctx, c.client.Species().Store, rest[0], c.out)
	}
}

func (c *command) create(ctx context.Context, args []string) error {
	kind, rest, err := parseKind(args)
	if err != nil {
		return err
	}
	flags := flag.NewFlagSet("create", flag.ContinueOnError)
	jsonData := flags.String("json", "", "the record's properties as a JSON object")
	if err := flags.Parse(rest); err != nil {
		return fmt.Errorf("%w: %s", errUsage, err)
	}
	if *jsonData == "" {
		return fmt.Errorf("%w: create needs -json", errUsage)
	}
	switch kind {
	case mdmodel.PlantKind:
		return createRecord[mdmodel.PlantRequest](ctx, c.client.Plants(), []byte(*jsonData), c.out)
	case mdmodel.PlantCultivarKind:
		return createRecord[mdmodel.PlantCultivarRequest](ctx, c.client.Cultivars().Store, []byte(*jsonData), c.out)
	default:
		return createRecord[mdmodel.PlantSpeciesRequest](ctx, c.client.Species().Store, []byte(*jsonData), c.out)
	}
}

func (c *command) importFiles(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)
	watch := flags.Bool("watch", false, "keep running and re-import whenever a file changes")
	ignoreDuplicates := flags.Bool("ignore-duplicates", false, "use the first of any duplicate entries")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %s", errUsage, err)
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("%w: import needs at least one file", errUsage)
	}

	builder := mdfiledata.Importer().FilePaths(flags.Args()...)
	if *ignoreDuplicates {
		builder.DuplicateEntriesHandling(mdfiledata.DuplicateEntriesIgnoreAllButFirst)
	}
	if !*watch {
		importer, err := builder.Build(c.client, c.loggers)
		if err != nil {
			return err
		}
		result, err := importer.Load(ctx)
		fmt.Fprintf(c.out, "created %d, skipped %d, failed %d\n", result.Created, result.Skipped, result.Failed)
		return err
	}

	importer, err := builder.Reloader(mdfilewatch.WatchFiles).Build(c.client, c.loggers)
	if err != nil {
		return err
	}
	defer importer.Close() //nolint:errcheck
	if err := importer.Start(ctx); err != nil {
		c.loggers.Warnf("Initial import failed: %s", err)
	}
	if c.metrics != "" && c.registry != nil {
		server := &http.Server{
			Addr:              c.metrics,
			Handler:           promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				c.loggers.Errorf("Metrics server failed: %s", err)
			}
		}()
		defer server.Close() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}

func (c *command) status(ctx context.Context) error {
	report, err := c.client.Status(ctx)
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "backend\t%s\n", report.BaseURL)
	if report.Healthy {
		fmt.Fprintf(tw, "health\t%s (HTTP %d, %s)\n", report.BackendStatus, report.StatusCode,
			report.Latency.Round(time.Millisecond))
	} else {
		fmt.Fprintf(tw, "health\tunavailable: %s\n", report.Error)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "KIND\tLIST\tCREATE\tFETCH\tGET\tERROR")
	for _, s := range report.Stores {
		list := "absent"
		if s.ListPresent {
			list = fmt.Sprintf("%d", s.ListSize)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.Kind.Name, list, s.Create, s.FetchAll, s.FetchOne, s.LastError)
	}
	if ferr := tw.Flush(); ferr != nil {
		return ferr
	}
	return err
}

type printableRecord interface {
	mdmodel.Record
	jwriter.Writable
}

func writeRecord(out io.Writer, rec jwriter.Writable) error {
	w := jwriter.NewWriter()
	rec.WriteToJSONWriter(&w)
	if err := w.Error(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, string(w.Bytes()))
	return err
}

func listRecords[Req jwriter.Writable, Rec printableRecord, PRec mdstore.RecordPtr[Rec]](
	ctx context.Context,
	store *mdstore.Store[Req, Rec, PRec],
	force bool,
	out io.Writer,
) error {
	if err := store.FetchIfNeeded(ctx, force); err != nil {
		return err
	}
	list, _ := store.List()
	for _, rec := range list {
		if err := writeRecord(out, rec); err != nil {
			return err
		}
	}
	return nil
}

func getRecord[Req jwriter.Writable, Rec printableRecord, PRec mdstore.RecordPtr[Rec]](
	ctx context.Context,
	store *mdstore.Store[Req, Rec, PRec],
	id string,
	out io.Writer,
) error {
	rec, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	return writeRecord(out, *rec)
}

func createRecord[
	Req jwriter.Writable,
	PReq interface {
		*Req
		jreader.Readable
	},
	Rec printableRecord,
	PRec mdstore.RecordPtr[Rec],
](
	ctx context.Context,
	store *mdstore.Store[Req, Rec, PRec],
	jsonData []byte,
	out io.Writer,
) error {
	var req Req
	r := jreader.NewReader(jsonData)
	PReq(&req).ReadFromJSONReader(&r)
	if err := r.Error(); err != nil {
		return fmt.Errorf("%w: invalid -json: %s", errUsage, err)
	}
	store.ShowForm()
	rec, err := store.SubmitNew(ctx, req)
	if err != nil {
		return err
	}
	return writeRecord(out, *rec)
}

// Command mendelctl is a command-line client for the Mendel API.
//
// It is configured with MENDEL_* environment variables; MENDEL_API_BASE_URL is required. Run it
// without arguments for a list of commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	mendelclient "github.com/mendelcore/go-admin-client"
	"github.com/mendelcore/go-admin-client/internal"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

func main() {
	os.Exit(runMain(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func runMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	env, err := loadEnv()
	if err != nil {
		fmt.Fprintf(stderr, "mendelctl: %s\n", err)
		return 2
	}
	loggers := internal.NewDefaultLoggers(stderr)
	if err := run(ctx, env, loggers, args, stdout); err != nil {
		fmt.Fprintf(stderr, "mendelctl: %s\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		return 1
	}
	return 0
}

func run(ctx context.Context, env envConfig, loggers ldlog.Loggers, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	config, registry, err := env.clientConfig(loggers)
	if err != nil {
		return err
	}
	client, err := mendelclient.MakeClient(config)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	c := &command{
		client:   client,
		loggers:  loggers,
		registry: registry,
		metrics:  env.MetricsAddr,
		out:      out,
	}
	return c.run(ctx, args)
}

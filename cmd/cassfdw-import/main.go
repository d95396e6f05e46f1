// Command cassfdw-import connects to a Cassandra cluster, walks the
// metadata of one keyspace and prints a CREATE FOREIGN TABLE statement
// for every table it finds.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
	"github.com/pgsql-io/cassandra-fdw/pkg/schemaimport"
)

func main() {
	var (
		cfg      remote.Config
		keyspace string
		server   string
		verbose  bool
	)
	cfg.RegisterFlags(flag.CommandLine)
	flag.StringVar(&keyspace, "import.keyspace", "", "Keyspace to import foreign table definitions from.")
	flag.StringVar(&server, "import.server", "cassandra", "Foreign server name the generated tables reference.")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging.")
	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	if keyspace == "" {
		level.Error(logger).Log("msg", "-import.keyspace is required")
		os.Exit(1)
	}

	session, err := cfg.NewSession()
	if err != nil {
		level.Error(logger).Log("msg", "connecting to Cassandra", "err", err)
		os.Exit(1)
	}
	defer session.Close()

	ddl, err := schemaimport.NewImporter(logger, session).Import(keyspace, server)
	if err != nil {
		level.Error(logger).Log("msg", "importing keyspace", "keyspace", keyspace, "err", err)
		os.Exit(1)
	}
	for _, stmt := range ddl {
		fmt.Printf("%s;\n", stmt)
	}
}

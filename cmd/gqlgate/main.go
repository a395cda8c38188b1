package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gqlgate/gqlgate/internal/eventbus"
	"github.com/gqlgate/gqlgate/internal/logging"
	"github.com/gqlgate/gqlgate/internal/otel"
	"github.com/gqlgate/gqlgate/internal/server"
)

const rootUsage = `gqlgate — GraphQL HTTP gateway

USAGE:
  gqlgate <command> [flags]

COMMANDS:
  serve            Run the HTTP GraphQL endpoint with the built-in demo schema
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -server.addr <addr>          HTTP listen address (default: :8080)
  -server.pretty               Pretty-print JSON responses
  -server.timeout <duration>   Per-request timeout, e.g. 10s (default: 10s)
  -server.max-body <bytes>     Request body size limit, 0 for unlimited (default: 0)
  -server.cors-origin <origin> Allowed CORS origin. Repeatable; * for any
  -graphql.graphiql <bool>     Serve the GraphiQL explorer to browsers (default: true)
  -graphql.batch <bool>        Accept JSON-array batch requests (default: true)
  -otel.endpoint <addr>        OTLP collector endpoint
  -otel.service <name>         OpenTelemetry service name (default: gqlgate)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("gqlgate", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "serve":
		return cmdServe(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "serve":
		fmt.Print(serveUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdServe(args []string) error {
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	maxBody := int64(0)
	graphiql := true
	batch := true
	otelEndpoint := ""
	otelService := "gqlgate"
	var corsOrigins stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.Int64Var(&maxBody, "server.max-body", maxBody, "Request body size limit")
	fs.Var(&corsOrigins, "server.cors-origin", "Allowed CORS origin")
	fs.BoolVar(&graphiql, "graphql.graphiql", graphiql, "Serve the GraphiQL explorer")
	fs.BoolVar(&batch, "graphql.batch", batch, "Accept batch requests")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}

	eventbus.Use(eventbus.New())
	defer logging.Setup(slog.Default())()
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sopts := []server.Option{
		server.WithGraphiQL(graphiql),
		server.WithBatch(batch),
	}
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	if maxBody > 0 {
		sopts = append(sopts, server.WithMaxBodyBytes(maxBody))
	}
	if len(corsOrigins) > 0 {
		sopts = append(sopts, server.WithCORS(corsOrigins...))
	}

	h, err := server.New(newDemoSchema(), sopts...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	log.Printf("GraphQL server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

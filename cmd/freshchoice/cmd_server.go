package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/freshchoice/storefront/app/routes"
	"github.com/freshchoice/storefront/internal/kernel"
	"github.com/freshchoice/storefront/internal/server"
	"github.com/freshchoice/storefront/pkg/event"
	"github.com/freshchoice/storefront/pkg/middleware"
	"github.com/freshchoice/storefront/pkg/session"
	"github.com/freshchoice/storefront/pkg/sse"
	"github.com/freshchoice/storefront/pkg/ws"
)

// freshchoice serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP (and, with GRPC_PORT, gRPC) server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cmd.Context())
	},
}

// freshchoice route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoutes(os.Stdout)
	},
}

// freshchoice schedule:list
var scheduleListCmd = &cobra.Command{
	Use:   "schedule:list",
	Short: "List the background housekeeping tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSchedule(os.Stdout)
	},
}

func printSchedule(out io.Writer) error {
	s, err := server.Housekeeping(
		session.NewManager(nil, session.Options{}),
		middleware.NewRateLimiter(server.RateLimit, time.Minute),
	)
	if err != nil {
		return err
	}
	for _, line := range s.List() {
		fmt.Fprintln(out, line)
	}
	return nil
}

// printRoutes builds the kernel without opening any store.
func printRoutes(out io.Writer) error {
	k, err := kernel.NewHTTPKernel(kernel.Deps{
		Deps: routes.Deps{Sessions: session.NewManager(nil, session.Options{})},
		Hub:  ws.NewHub(nil),
		Feed: sse.NewFeed(event.OrderPlaced),
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range k.Router.Routes() {
		method := ri.Method
		if method == "*" {
			method = "ANY"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", method, ri.Path, ri.Name)
	}
	return w.Flush()
}

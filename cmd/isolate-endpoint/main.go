// Command isolate-endpoint submits a network isolation request for an endpoint.
//
//	isolate-endpoint endpoint_id=<id>
package main

import (
	"context"
	"os"

	"edrplugins/internal/modules/endpoint"
	"edrplugins/internal/transports/cli"
)

func main() {
	os.Exit(cli.RunPlugin(context.Background(), endpoint.ActionIsolate, os.Args[1:], os.Stdout, os.Stderr))
}

// Command unisolate-endpoint removes network isolation from an endpoint.
//
//	unisolate-endpoint endpoint_id=<id>
package main

import (
	"context"
	"os"

	"edrplugins/internal/modules/endpoint"
	"edrplugins/internal/transports/cli"
)

func main() {
	os.Exit(cli.RunPlugin(context.Background(), endpoint.ActionUnisolate, os.Args[1:], os.Stdout, os.Stderr))
}

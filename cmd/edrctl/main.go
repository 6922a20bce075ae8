package main

import (
	"context"
	"os"

	"edrplugins/internal/transports/cli"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(cli.RunCtl(context.Background(), os.Args[1:], os.Stdout, os.Stderr, buildVersion()))
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}

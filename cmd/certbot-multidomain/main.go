package main

import (
	"github.com/LsHallo/certbot-multidomain/internal/cli"
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}

// Command bumper bumps a project's SemVer or CalVer version across the files
// listed in its configuration.
package main

import (
	"os"

	"github.com/jimdowning-cyclops/bumper/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}

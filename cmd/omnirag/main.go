package main

import (
	"os"

	"omnirag/console/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

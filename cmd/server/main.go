// Command server runs the console API without the rest of the CLI, for
// container images and service managers.
package main

import (
	"os"

	"omnirag/console/internal/app"
)

func main() {
	os.Exit(app.Run())
}

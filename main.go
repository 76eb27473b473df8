package main

import (
	"os"

	"github.com/jonesrussell/trendscout/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

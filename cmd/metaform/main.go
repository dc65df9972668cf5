package main

import (
	"os"

	"github.com/dnavi/metaform/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

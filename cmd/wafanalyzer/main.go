package main

import (
	"os"

	"github.com/hpowernl/wafcli/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}

package main

import (
	"os"

	"github.com/hpowernl/wafcli/internal/copilot"
)

func main() {
	os.Exit(copilot.Main(os.Args[1:], os.Stdout))
}

package main

import (
	"os"

	"github.com/hpowernl/wafcli/internal/infracheck"
)

func main() {
	os.Exit(infracheck.Main(os.Args[1:], os.Stdout))
}

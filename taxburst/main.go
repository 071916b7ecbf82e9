package main

import (
	"os"

	"github.com/mrunalimanj/EVcouplings/taxburst/cmd"
)

func main() {
	cmd.Execute(os.Args[1:])
}

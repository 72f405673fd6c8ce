package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

const version = "0.1.0"

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("foodctl"),
		kong.Description("Drive a running food ordering server from the terminal"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

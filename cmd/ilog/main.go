package main

import (
	"log"
	"os"

	"github.com/ilogapp/ilog-cli/internal/cli/commands"
)

// Version will be set during build with ldflags
var Version = "0.9.0"

func main() {
	app, err := commands.NewApp()
	if err != nil {
		log.Fatal(err)
	}

	root := commands.NewRootCmd(app, Version)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/joho/godotenv"

	"focusflow/internal/cli"
)

var version = "dev"

func main() {
	// A .env file may carry FOCUSFLOW_* overrides; it is optional.
	_ = godotenv.Load()

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"github.com/joho/godotenv"

	"docsearch/internal/cli"
)

func main() {
	// Optional .env for API keys and object store credentials.
	_ = godotenv.Load()

	cli.Execute()
}

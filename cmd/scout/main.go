package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

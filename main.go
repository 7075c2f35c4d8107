package main

import (
	"github.com/joho/godotenv"

	"github.com/lehigh-university-libraries/osti-extract/cmd"
)

func main() {
	// Optional .env with LOG_LEVEL and friends; a missing file is fine.
	_ = godotenv.Load()

	cmd.Execute()
}

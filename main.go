package main

import (
	"github.com/joho/godotenv"

	"github.com/amhub/dataworld/cmd"
)

func main() {
	// Pick up DATAWORLD_NOTIFY_TOKEN and friends from a local .env
	_ = godotenv.Load()
	cmd.Execute()
}

package main

import (
	"tweeter/cmd/handlers"
	"tweeter/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	handlers.Execute()
}

package main

import (
	"os"

	"social-calendar-api/core/logger"
	"social-calendar-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
		os.Exit(1)
	}
}

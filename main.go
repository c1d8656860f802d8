package main

import (
	"today-scheduler/core/logger"
	"today-scheduler/core/server"
)

// @title Today Scheduler API
// @version 1.0
// @description Availability reconciliation and meeting scheduling backend

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}

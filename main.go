package main

import (
	"groupcal/core/logger"
	"groupcal/core/server"
)

// @title GroupCal API
// @version 1.0
// @description Group calendar service with free-time availability search

// @host localhost:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}

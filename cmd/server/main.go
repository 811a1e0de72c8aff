package main

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"qrapp/internal/database"
	"qrapp/internal/global"
	"qrapp/internal/logger"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()
	defer database.CloseInstance(global.MongoDB_Session)

	// Khởi tạo registry và index
	InitRegistry()

	// Nối dây toàn bộ service
	deps := InitServices()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData(deps)

	// Khởi tạo app và chạy Fiber server trên main thread
	app := InitFiberApp(deps)

	cfg := global.MongoDB_ServerConfig
	address := ":" + cfg.Address

	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server")

	if err := app.Listen(address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

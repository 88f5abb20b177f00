// FilePath: cmd/hub/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/joho/godotenv"
	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/server"
)

func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting LuzHub Server v%s", nuts.GetVersion())

	// Local overrides are optional
	if err := godotenv.Load(); err == nil {
		nuts.L.Infof("[Main] Loaded environment overrides from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    __                __  __      __  ",
		"   / /   __  ______  / / / /_  __/ /_ ",
		"  / /   / / / /_  / / /_/ / / / / __ \\",
		" / /___/ /_/ / / /_/ __  / /_/ / /_/ /",
		"/_____/\\__,_/ /___/_/ /_/\\__,_/_.___/ ",
		"........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}

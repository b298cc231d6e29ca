package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/config"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/logger"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/server"
)

var (
	port    = flag.Int("port", 0, "server port (config.toml wins when it sets one explicitly)")
	devMode = flag.Bool("dev", false, "development mode")
	dataDir = flag.String("dataDir", "", "data directory (overrides config file)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  TenderDesk - tender eligibility screener")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("listening on port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	fmt.Println("\npress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nshutting down...")
	if err := srv.Close(); err != nil {
		log.Printf("failed to close store: %v", err)
	}
}

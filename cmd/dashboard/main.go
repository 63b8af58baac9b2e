package main

import (
	"fmt"
	"os"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/dashboard"
	"github.com/egresswatch/egresswatch/pkg/client"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	api := client.NewClient(client.Config{
		BaseURL: fmt.Sprintf("http://%s:%d", host, cfg.Server.Port),
	})

	srv := dashboard.New(api)
	addr := fmt.Sprintf(":%d", cfg.Server.DashboardPort)
	fmt.Printf("Dashboard listening on %s\n", addr)
	if err := srv.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Dashboard server error: %v\n", err)
		os.Exit(1)
	}
}

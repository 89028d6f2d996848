// Package config provides configuration management for the price tracker.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details for the price ledger
//   - Storage: S3/MinIO credentials for the raw payload archive
//   - Log: Logging level and format
//   - Tracker: cycle interval, timeouts, enabled sources, empty-snapshot policy
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config

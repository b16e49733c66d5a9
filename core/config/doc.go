// Package config provides configuration management for es-diff.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Command-line flags override whatever the
// environment provides.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided
// into subsections:
//   - Elastic: Elasticsearch host, scroll defaults, timeouts
//   - Storage: S3/MinIO credentials and bucket for report uploads
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Elastic.Host)
package config

// Package config loads runtime configuration for the journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string            address:port of the document server
//	-t string            access token
//	-u string            user id
//	-d string            local database file
//	-i int               online status check interval (seconds)
//	-l string            log file
//	-n int               entity types synced in parallel
//	-upload-timeout dur  timeout of one media upload
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "user_id": "u-1",
//	  "database_path": "/home/me/.config/growthjournal/journal.db",
//	  "online_check_interval": "3s",
//	  "log_file": "/tmp/journal.log",
//	  "sync_concurrency": 5,
//	  "upload_timeout": "2m"
//	}
package config

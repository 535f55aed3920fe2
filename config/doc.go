// Package config loads the searchkit configuration with viper.
//
// The file is config.{yaml,json,toml} found in /etc/searchkit,
// $HOME/.searchkit, the working directory or the binary directory, or the
// path passed to Init. Every key can be overridden from the environment with
// the SEARCHKIT_ prefix, dots replaced by underscores:
//
//	SEARCHKIT_SERVER_PORT=9200
//	SEARCHKIT_DATA_SEARCH_ENGINE=opensearch
//
// Example:
//
//	app_name: searchkit
//	environment: release
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	logger:
//	  level: 4
//	  format: json
//	  output: stdout
//	data:
//	  search:
//	    engine: elasticsearch
//	    window_limit: 10000
//	    scroll_ttl: 1m
//	    timeout: 10s
//	    elasticsearch:
//	      addresses: ["http://localhost:9200"]
//	observes:
//	  tracer:
//	    endpoint: localhost:4317
package config

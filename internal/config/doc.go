// Package config provides configuration parsing for routetable.
//
// The configuration is stored in routetable.json next to the route
// manifest. Missing fields take defaults from New.
//
// # Configuration File Structure
//
//	{
//	  "manifest": {
//	    "path": "routes.yaml",
//	    "format": "yaml"
//	  },
//	  "router": {
//	    "caseInsensitive": false,
//	    "strictAmbiguity": true
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "metrics": true
//	  },
//	  "watch": {
//	    "enabled": true,
//	    "debounce": "100ms"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "console"
//	  }
//	}
//
// A manifest can live in S3 instead:
//
//	"manifest": {"s3": {"bucket": "routes", "key": "prod/routes.json", "region": "eu-west-1"}}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	table, err := router.Compile(patterns, cfg.CompileOptions()...)
package config

// Package config provides configuration parsing for the vpatch CLI.
//
// The configuration is stored in vpatch.json. Every field is optional; a
// missing file or field takes the default.
//
// # Configuration File Structure
//
//	{
//	  "render": {
//	    "pretty": true,
//	    "indent": "  "
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "namespace": "vpatch"
//	  },
//	  "server": {
//	    "addr": "localhost:8080"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(config.FindRoot("."))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.NewLogger(os.Stderr)
package config

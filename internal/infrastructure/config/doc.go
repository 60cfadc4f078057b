// Package config handles loading and validating the strike controller's
// bootstrap configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The bootstrap configuration is process-level: storage paths, hardware
// timings, setup access-point identity, retry policy, and logging. It is
// distinct from the persisted device configuration (network credentials,
// broker parameters, device identity), which is owned by the store package
// and created through the setup flow.
//
// A factory-fresh device runs entirely on defaults, so a missing config
// file is not an error at the call site; main falls back to Default().
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Path)
package config

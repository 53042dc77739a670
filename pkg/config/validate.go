package config

import "fmt"

// ValidatableConfig is implemented by every command configuration.
type ValidatableConfig interface {
	Validate() []error
}

// Validate collects the validation errors of all cfgs. Errors keep the
// order of cfgs and, within one config, the order of its fields, so the
// CLI lists them the way the flags appear in --help.
func Validate(cfgs ...ValidatableConfig) []error {
	var out []error

	for _, cfg := range cfgs {
		out = append(out, cfg.Validate()...)
	}

	return out
}

// validatePort checks a TCP port. Port 0 asks the kernel for a free port,
// which only makes sense when listening.
func validatePort(port int, listening bool) error {
	lowest := 1
	if listening {
		lowest = 0
	}

	if port < lowest || port > 65535 {
		return fmt.Errorf("'--port' must be in [%d, 65535], got %d", lowest, port)
	}

	return nil
}

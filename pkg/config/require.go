package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustOneOf aborts startup when value is not in allowed.
func MustOneOf(value, envName string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	log.Fatalf("env %s=%q must be one of %v", envName, value, allowed)
}

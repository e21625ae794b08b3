package env

import "os"

// Get reads an environment variable, falling back when it is unset or
// blank. Used for knobs read before the full config is parsed, such as
// the bootstrap log format.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

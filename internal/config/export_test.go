package config

// SetGetenv replaces the environment lookup and returns a restore func.
func SetGetenv(fn func(string) string) func() {
	prev := getenv
	getenv = fn
	return func() { getenv = prev }
}

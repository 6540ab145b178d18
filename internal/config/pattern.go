package config

import "github.com/bmatcuk/doublestar/v4"

func isValidPattern(pattern string) bool {
	return pattern != "" && doublestar.ValidatePattern(pattern)
}

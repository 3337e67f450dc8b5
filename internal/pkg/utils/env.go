package utils

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// lookupEnv returns defaultValue when key is unset or blank, or when parse
// rejects the value.
func lookupEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	parsed, err := parse(strings.TrimSpace(value))
	if err != nil {
		log.Printf("Error parsing %s: %v, will use default value", key, err)
		return defaultValue
	}
	return parsed
}

func GetEnvString(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	return lookupEnv(key, defaultValue, strconv.Atoi)
}

func GetEnvBool(key string, defaultValue bool) bool {
	return lookupEnv(key, defaultValue, strconv.ParseBool)
}

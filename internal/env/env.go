package env

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

var (
	ErrNotFound         = errors.New("environment variable with key not found")
	ErrConversionFailed = errors.New("failed to convert environment variable with key to value")
)

func errNotFound(key string) error {
	return fmt.Errorf("key: %s: %w", key, ErrNotFound)
}

func errConversionFailed(key string, typeName string) error {
	return fmt.Errorf("key: %s type: %s: %w", key, typeName, ErrConversionFailed)
}

func GetString(key string) (string, error) {
	if val, found := os.LookupEnv(key); found {
		return val, nil
	}

	return "", errNotFound(key)
}

func GetStringOrDefault(key string, defaultVal string) string {
	if val, found := os.LookupEnv(key); found {
		return val
	}

	return defaultVal
}

func MustGetString(key string) string {
	if val, found := os.LookupEnv(key); found {
		return val
	}

	panic(errNotFound(key))
}

func MustGetInt(key string) int {
	envVal, found := os.LookupEnv(key)
	if !found {
		panic(errNotFound(key))
	}

	val, err := strconv.Atoi(envVal)
	if err != nil {
		panic(errConversionFailed(key, "int"))
	}

	return val
}

func GetIntOrDefault(key string, defaultVal int) int {
	envVal, found := os.LookupEnv(key)
	if !found {
		return defaultVal
	}

	val, err := strconv.Atoi(envVal)
	if err != nil {
		return defaultVal
	}

	return val
}

func GetBoolOrDefault(key string, defaultVal bool) bool {
	envVal, found := os.LookupEnv(key)
	if !found {
		return defaultVal
	}

	val, err := strconv.ParseBool(envVal)
	if err != nil {
		return defaultVal
	}

	return val
}

func GetDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	envVal, found := os.LookupEnv(key)
	if !found {
		return defaultVal
	}

	val, err := time.ParseDuration(envVal)
	if err != nil {
		return defaultVal
	}

	return val
}

func MustGetURL(key string) *url.URL {
	val, found := os.LookupEnv(key)
	if !found {
		panic(errNotFound(key))
	}

	u, err := url.Parse(val)
	if err != nil {
		panic(errConversionFailed(key, "url.URL"))
	}

	return u
}

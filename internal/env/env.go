// Package env reads configuration defaults from the environment.
package env

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	LogLevelKey  = "PIPEMERGE_LOG_LEVEL"
	LogFormatKey = "PIPEMERGE_LOG_FORMAT"
	DeepKey      = "PIPEMERGE_DEEP"
)

func String(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}

	return def
}

func Bool(key string, def bool) (bool, error) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, errors.Wrapf(err, "parse %s", key)
		}

		return b, nil
	}

	return def, nil
}

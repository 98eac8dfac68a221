package linode

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/linode/linodego"
)

// ConfigError reports a user-facing configuration problem: a selector that
// matched nothing, or a required option that is missing. Distinguishable from
// transient provider errors and never retried.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("no matching %s for selector %q", e.Field, e.Value)
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsNotFound checks if an error is a Linode API 404.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err, http.StatusNotFound)
}

// IsRateLimited checks if an error is a Linode API 429.
func IsRateLimited(err error) bool {
	return isAPIErrorCode(err, http.StatusTooManyRequests)
}

// isAPIErrorCode checks if the error is a Linode API error with one of the
// given HTTP status codes.
func isAPIErrorCode(err error, codes ...int) bool {
	if err == nil {
		return false
	}

	var apiErr *linodego.Error
	if errors.As(err, &apiErr) {
		for _, code := range codes {
			if apiErr.Code == code {
				return true
			}
		}
	}
	return false
}

package endpoints

import (
	"os"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// EnvLookup has the signature of os.LookupEnv; tests substitute their own.
type EnvLookup func(name string) (string, bool)

// SelectBaseURL returns the configured base URL if there is one, otherwise the value of
// BaseURLEnvVar, with any trailing slashes removed.
//
// If neither is set, the error is logged and "" is returned: the client is still usable, but every
// request will fail because the URL has no scheme.
func SelectBaseURL(configured string, lookupEnv EnvLookup, loggers ldlog.Loggers) string {
	baseURL := configured
	if baseURL == "" {
		if lookupEnv == nil {
			lookupEnv = os.LookupEnv
		}
		baseURL, _ = lookupEnv(BaseURLEnvVar)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		loggers.Error(MissingBaseURLMessage)
		return ""
	}
	return strings.TrimRight(baseURL, "/")
}

// AddPath concatenates a subpath to a URL in a way that will not cause a double slash.
func AddPath(baseURL string, path string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

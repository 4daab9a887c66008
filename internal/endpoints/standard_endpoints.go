package endpoints

const (
	// BaseURLEnvVar is the environment variable consulted when no base URL is configured.
	BaseURLEnvVar = "MENDEL_API_BASE_URL"

	// MissingBaseURLMessage is logged when neither the configuration nor the environment provides a
	// base URL.
	MissingBaseURLMessage = "Required environment variable " + BaseURLEnvVar + " is not set."
)

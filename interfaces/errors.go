package interfaces

import "fmt"

// UnknownServerErrorMessage is used when the backend reports a failure without an error message.
const UnknownServerErrorMessage = "An unknown server error occurred."

// HTTPStatusError is returned when the backend responds with a non-2xx status. Message is the
// "error" property of the response envelope, or UnknownServerErrorMessage if there was none.
type HTTPStatusError struct {
	Code    int
	Message string
	URL     string
}

func (e HTTPStatusError) Error() string {
	return e.Message
}

// MalformedResponseError is returned when a 2xx response body could not be parsed.
type MalformedResponseError struct {
	URL        string
	InnerError error
}

func (e MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.URL, e.InnerError)
}

func (e MalformedResponseError) Unwrap() error {
	return e.InnerError
}

package errs

import "fmt"

// HttpError carries a response status and message through the handler
// error path. Data holds optional payload, e.g. missing form field ids.
type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

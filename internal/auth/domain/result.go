package domain

// Status is the outcome of an authentication operation.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Result is the body returned by login, refresh, logout and register.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Status == StatusSuccess }

func Success(message string) Result {
	return Result{Status: StatusSuccess, Message: message}
}

func Failure(message, detail string) Result {
	return Result{Status: StatusFailure, Message: message, Error: detail}
}

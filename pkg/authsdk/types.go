package authsdk

// Result is the body of every authentication endpoint.
type Result struct {
	// Status is "SUCCESS" or "FAILURE".
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether Status is SUCCESS.
func (r Result) OK() bool { return r.Status == StatusSuccess }

const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Credentials is the body of login and register calls.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency (readyz only).
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

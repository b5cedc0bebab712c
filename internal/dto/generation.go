package dto

// GenerateRequest represents a Q&A generation request from the form or JSON API
// @Description Topic and difficulty for a generation run
type GenerateRequest struct {
	Topic      string `json:"topic" form:"topic" example:"Cryptocurrency"`
	Difficulty string `json:"difficulty" form:"difficulty" validate:"difficulty" example:"Medium"`
}

// GenerateResponse carries the rendered output of a generation run.
// Failures are reported in-band: Success is false and Output holds the error message.
// @Description Generated Q&A pairs or a classified error message
type GenerateResponse struct {
	RequestID  string `json:"request_id"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Success    bool   `json:"success"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Output     string `json:"output"`
}

// ExampleResponse is one canned input pair
type ExampleResponse struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// ExamplesResponse lists the canned input pairs
type ExamplesResponse struct {
	Examples []ExampleResponse `json:"examples"`
}

// HealthResponse reports liveness and whether generation can reach the provider
type HealthResponse struct {
	Status               string `json:"status"`
	Provider             string `json:"provider"`
	CredentialConfigured bool   `json:"credential_configured"`
}

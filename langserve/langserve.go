package langserve

// Wire types for the backend's JSON protocol.

// apiRequest is the body sent to both endpoints:
// {"input":{"prompt":...},"config":{},"kwargs":{}}.
type apiRequest struct {
	Input  apiInput       `json:"input"`
	Config map[string]any `json:"config"`
	Kwargs map[string]any `json:"kwargs"`
}

type apiInput struct {
	Prompt string `json:"prompt"`
}

// apiInvokeResponse is the single-shot success envelope. Pointers
// distinguish absent fields from empty ones; both are required.
type apiInvokeResponse struct {
	Output *apiOutput `json:"output"`
}

type apiOutput struct {
	Content *string `json:"content"`
}

// apiErrorResponse is the structured error body on non-2xx responses.
type apiErrorResponse struct {
	Detail string `json:"detail"`
}

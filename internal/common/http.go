package common

// HttpResponse is the response envelope every portal endpoint wraps its
// payload in. On failures, Data carries the machine-readable error code.
type HttpResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

package response

// Response is the JSON envelope returned by every API handler.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const (
	statusOk    = "ok"
	statusError = "error"
)

func Ok(message string) Response {
	return Response{Status: statusOk, Message: message}
}

func Data(data any) Response {
	return Response{Status: statusOk, Data: data}
}

func Error(message string) Response {
	return Response{Status: statusError, Message: message}
}

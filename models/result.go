package models

// Result is the envelope every operation returns to the presentation layer.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`
}

func OK[T any](message string, data T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: &data}
}

func Failed(message string) Result[struct{}] {
	return Result[struct{}]{Success: false, Message: message}
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeOK    = 0
	CodeError = 1
)

// Envelope wraps every JSON response.
type Envelope[T any] struct {
	Data    T       `json:"data"`
	Code    int     `json:"code"`
	Message *string `json:"message"`
}

func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Data: data, Code: CodeOK}
}

func Fail(message string) Envelope[any] {
	env := Envelope[any]{Code: CodeError}
	if message != "" {
		env.Message = &message
	}
	return env
}

func respondOK[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, OK(data))
}

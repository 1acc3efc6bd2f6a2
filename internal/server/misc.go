package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/czttgd/breakinfo/internal/diaglog"
	"github.com/gin-gonic/gin"
)

type pong struct {
	Text string `json:"text"`
}

func (s *Server) Ping(c *gin.Context) {
	respondOK(c, pong{Text: c.Query("text")})
}

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 1 << 20

// UploadLog stores the first part of a multipart body.
func (s *Server) UploadLog(c *gin.Context) {
	if limit := s.logStore.MaxBytes(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	reader, err := c.Request.MultipartReader()
	if err != nil {
		AbortWithError(c, newValidationError("body", "invalid_multipart", "multipart body required"))
		return
	}
	part, err := reader.NextPart()
	if errors.Is(err, io.EOF) {
		AbortWithError(c, newValidationError("body", "missing_part", "no file part"))
		return
	}
	if err != nil {
		AbortWithError(c, uploadError(err))
		return
	}
	defer part.Close()

	saved, err := s.logStore.Save(c.Request.Context(), part)
	if err != nil {
		AbortWithError(c, uploadError(err))
		return
	}

	respondOK(c, saved)
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %w", diaglog.ErrTooLarge, err)
	}
	return err
}

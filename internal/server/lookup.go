package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) ListUsers(c *gin.Context) {
	users, err := s.lookupRepo.ListUsers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, users)
}

func (s *Server) ListBreakCauses(c *gin.Context) {
	causes, err := s.lookupRepo.ListBreakCauses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, causes)
}

func (s *Server) ListBreakpoints(c *gin.Context) {
	points, err := s.lookupRepo.ListBreakpoints(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, points)
}

func (s *Server) ListMachines(c *gin.Context) {
	stage, err := parseInt32(c.Param("stage"))
	if err != nil {
		AbortWithError(c, newValidationError("stage", "invalid_stage", "stage must be an integer"))
		return
	}

	machines, err := s.lookupRepo.ListMachines(c.Request.Context(), stage)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, machines)
}

func (s *Server) ListDevices(c *gin.Context) {
	stage, err := parseInt32(c.Param("stage"))
	if err != nil {
		AbortWithError(c, newValidationError("stage", "invalid_stage", "stage must be an integer"))
		return
	}

	devices, err := s.lookupRepo.ListDevices(c.Request.Context(), stage)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, devices)
}

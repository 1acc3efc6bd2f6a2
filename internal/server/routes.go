package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type route struct {
	method  string
	path    string
	handler func(*Server, *gin.Context)
}

var routes = []route{
	{http.MethodGet, "/ping", (*Server).Ping},

	{http.MethodPost, "/inspection", (*Server).CreateInspection},
	{http.MethodGet, "/inspection/search", (*Server).SearchInspections},
	{http.MethodGet, "/inspection/count", (*Server).CountInspections},
	{http.MethodGet, "/inspection/export", (*Server).ExportInspections},
	{http.MethodGet, "/inspection/:id", (*Server).GetInspection},
	{http.MethodPut, "/inspection/:id", (*Server).UpdateInspection},

	{http.MethodGet, "/users", (*Server).ListUsers},
	{http.MethodGet, "/break/causes", (*Server).ListBreakCauses},
	{http.MethodGet, "/break/points", (*Server).ListBreakpoints},
	{http.MethodGet, "/stage/:stage/machines", (*Server).ListMachines},
	{http.MethodGet, "/stage/:stage/devices", (*Server).ListDevices},

	{http.MethodPost, "/log", (*Server).UploadLog},
}

func (s *Server) registerRoutes() {
	for _, rt := range routes {
		handler := rt.handler
		s.engine.Handle(rt.method, rt.path, func(c *gin.Context) {
			handler(s, c)
		})
	}
}

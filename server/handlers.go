package server

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	logerrors "github.com/kbukum/logkit/errors"
	"github.com/kbukum/logkit/logapi"
	"github.com/kbukum/logkit/server/middleware"
)

const defaultPageSize = 100

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.getProject)
	s.engine.POST("/", s.createProject)
	s.engine.DELETE("/", s.deleteProject)
	s.engine.GET("/logstores", s.listLogStores)
	s.engine.POST("/logstores", s.createLogStore)
	s.engine.GET("/logstores/:logstore", s.getLogStore)
}

// projectName extracts <project> from a <project>.<domain> host.
func (s *Server) projectName(c *gin.Context) string {
	host := c.Request.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	prefix, ok := strings.CutSuffix(host, "."+s.config.Domain)
	if !ok || prefix == "" || strings.Contains(prefix, ".") {
		return ""
	}
	return prefix
}

// getProject serves a project on its own host, or the project list on the bare endpoint.
func (s *Server) getProject(c *gin.Context) {
	name := s.projectName(c)
	if name == "" {
		projects := s.store.ListProjects()
		c.JSON(http.StatusOK, logapi.ListProjectsResponse{
			Count:    len(projects),
			Total:    len(projects),
			Projects: projects,
		})
		return
	}

	p, err := s.store.GetProject(name)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) createProject(c *gin.Context) {
	var req logapi.CreateProjectRequest
	if !decodeBody(c, &req) {
		return
	}
	if _, err := s.store.CreateProject(req); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) deleteProject(c *gin.Context) {
	if err := s.store.DeleteProject(s.projectName(c)); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) listLogStores(c *gin.Context) {
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}
	size, ok := queryInt(c, "size", defaultPageSize)
	if !ok {
		return
	}

	names, total, err := s.store.ListLogStores(s.projectName(c), offset, size)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, logapi.ListLogStoresResponse{
		Count:     len(names),
		Total:     total,
		LogStores: names,
	})
}

func (s *Server) createLogStore(c *gin.Context) {
	var ls logapi.LogStore
	if !decodeBody(c, &ls) {
		return
	}
	if ls.Name == "" {
		writeError(c, http.StatusBadRequest, logerrors.ServiceCodeParameterInvalid, "logstoreName is required")
		return
	}
	if err := s.store.CreateLogStore(s.projectName(c), ls); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) getLogStore(c *gin.Context) {
	ls, err := s.store.GetLogStore(s.projectName(c), c.Param("logstore"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, ls)
}

func decodeBody(c *gin.Context, v any) bool {
	body, err := c.GetRawData()
	if err == nil {
		err = logapi.Decode(body, v)
	}
	if err != nil {
		writeError(c, http.StatusBadRequest, logerrors.ServiceCodeParameterInvalid, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(c, http.StatusBadRequest, logerrors.ServiceCodeParameterInvalid, "invalid "+key+": "+raw)
		return 0, false
	}
	return v, true
}

func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		writeError(c, http.StatusNotFound, logerrors.ServiceCodeProjectNotExist, err.Error())
	case errors.Is(err, ErrProjectExists):
		writeError(c, http.StatusBadRequest, logerrors.ServiceCodeProjectAlreadyExist, err.Error())
	case errors.Is(err, ErrLogStoreNotFound):
		writeError(c, http.StatusNotFound, logerrors.ServiceCodeLogStoreNotExist, err.Error())
	case errors.Is(err, ErrLogStoreExists):
		writeError(c, http.StatusBadRequest, logerrors.ServiceCodeLogStoreAlreadyExist, err.Error())
	case errors.Is(err, ErrInvalidProjectArg):
		writeError(c, http.StatusBadRequest, logerrors.ServiceCodeParameterInvalid, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, logerrors.ServiceCodeInternal, err.Error())
	}
}

// writeError aborts with a service error document.
func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, logerrors.NewServiceError(status, code, message, middleware.GetRequestID(c)))
}

// Package server exposes the engine over HTTP/JSON, mirroring the API the
// web dashboard expects. The transport stays thin: validation and JSON
// shaping only, everything conversational lives in the engine.
package server

import (
	"net/http"
	"strconv"
	"time"

	"deskmate/internal/mind"
	"deskmate/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxMessageLength = 1000

type Server struct {
	engine *mind.Engine
	log    zerolog.Logger
}

func New(engine *mind.Engine, log zerolog.Logger) *Server {
	return &Server{engine: engine, log: log.With().Str("component", "http").Logger()}
}

// Router builds the gin engine with all API routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api", rateLimit(newClientLimiters(requestsPerMinute)))
	{
		api.POST("/chat", s.handleChat)
		api.POST("/chat/context", s.handleCreateContext)
		api.GET("/contexts", s.handleListContexts)
		api.GET("/contexts/:id/history", s.handleHistory)
		api.GET("/suggestions", s.handleSuggestions)
		api.GET("/status", s.handleStatus)
	}
	return r
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if len(req.Message) > maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is too long (max 1000 characters)"})
		return
	}

	reply, err := s.engine.ProcessUtterance(c.Request.Context(), req.Message)
	if err != nil {
		s.log.Error().Err(err).Msg("utterance processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}
	c.JSON(http.StatusOK, reply)
}

type createContextRequest struct {
	Name           string `json:"name" binding:"required"`
	Topic          string `json:"topic"`
	InitialMessage string `json:"initial_message"`
}

func (s *Server) handleCreateContext(c *gin.Context) {
	var req createContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	id, err := s.engine.Contexts().Create(req.Name, req.Topic, req.InitialMessage)
	resp := gin.H{
		"context_id": id,
		"name":       req.Name,
		"topic":      req.Topic,
	}
	if err != nil {
		// The context exists in memory even when the flush failed; report
		// it with the id so the caller can alert instead of retrying.
		s.log.Error().Err(err).Str("context_id", id).Msg("context create persist failed")
		resp["persist_failed"] = true
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListContexts(c *gin.Context) {
	summaries := s.engine.Contexts().List()
	c.JSON(http.StatusOK, gin.H{"contexts": summaries, "total": len(summaries)})
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	msgs, err := s.engine.Contexts().History(c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "context not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

func (s *Server) handleSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"suggestions": s.engine.Suggestions(),
		"mood":        s.engine.Mood(),
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version.AppVersion,
	})
}

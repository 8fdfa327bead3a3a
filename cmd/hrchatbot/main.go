// Copyright 2026 HRChatBot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides the HR chat service: a natural-language interface
// over the HR database, exposed as a small HTTP API.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shyamddesai/HRChatBot/internal/action"
	"github.com/shyamddesai/HRChatBot/internal/audit"
	"github.com/shyamddesai/HRChatBot/internal/chat"
	"github.com/shyamddesai/HRChatBot/internal/config"
	"github.com/shyamddesai/HRChatBot/internal/format"
	"github.com/shyamddesai/HRChatBot/internal/identity"
	"github.com/shyamddesai/HRChatBot/internal/llm"
	"github.com/shyamddesai/HRChatBot/internal/query"
	"github.com/shyamddesai/HRChatBot/internal/store"
	"go.uber.org/zap"
)

// DefaultPort is the listen port when none is configured.
const DefaultPort = "8080"

// identityKey is the gin context key the middleware stores the caller under.
const identityKey = "caller_identity"

// Server holds the wired pipeline behind the HTTP handlers.
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	service *chat.Service
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load("./configs/config.yaml")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open HR database", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	if err := st.Seed(context.Background()); err != nil {
		logger.Warn("Seeding skipped", zap.Error(err))
	}

	auditStore, err := audit.NewStore(st.DB())
	if err != nil {
		logger.Fatal("Failed to initialize audit sink", zap.Error(err))
	}

	gateway, err := llm.NewClient(llm.Config{
		APIKey:      cfg.Groq.APIKey,
		Endpoint:    cfg.Groq.Endpoint,
		Model:       cfg.Groq.Model,
		Temperature: float32(cfg.Groq.Temperature),
		Timeout:     time.Duration(cfg.Groq.TimeoutSecs) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize gateway client", zap.Error(err))
	}

	executor := query.NewExecutor(st.DB(), auditStore,
		time.Duration(cfg.Chat.QueryTimeoutSecs)*time.Second, logger)
	formatter := format.NewFormatter(gateway, logger,
		cfg.Chat.DirectRenderRows, cfg.Chat.SummarySampleRows)
	dispatcher := action.NewDispatcher(st, logger)
	service := chat.NewService(gateway, st, executor, formatter, dispatcher,
		logger, cfg.Chat.HistoryWindow)

	server := &Server{config: cfg, logger: logger, service: service}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", server.handleHealth)
	router.POST("/chat", identityMiddleware(logger), server.handleChat)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	if port == "" {
		port = DefaultPort
	}

	logger.Info("Starting HR chat server",
		zap.String("port", port),
		zap.String("model", cfg.Groq.Model),
	)

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// identityMiddleware builds the caller identity from the trusted headers
// set by the authenticating proxy. Requests without a valid identity are
// rejected before reaching the pipeline.
func identityMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Identity{
			ID:          c.GetHeader("X-User-ID"),
			Role:        identity.Role(c.GetHeader("X-User-Role")),
			Email:       c.GetHeader("X-User-Email"),
			DisplayName: c.GetHeader("X-User-Name"),
		}

		if id.ID == "" || !id.Role.Valid() {
			logger.Warn("Rejected request with missing or invalid identity",
				zap.String("role", string(id.Role)),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid caller identity",
			})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleChat processes one chat message through the pipeline.
func (s *Server) handleChat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	caller := c.MustGet(identityKey).(identity.Identity)
	reply := s.service.Process(c.Request.Context(), caller, req)

	c.JSON(http.StatusOK, reply)
}

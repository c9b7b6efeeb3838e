package api

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iplayapp/iplay-backend/internal/config"
	"github.com/iplayapp/iplay-backend/internal/metrics"
	"github.com/iplayapp/iplay-backend/internal/storage"
	"go.uber.org/zap"
)

type Server struct {
	DB     *sql.DB
	Bucket storage.Bucket
	Cfg    *config.Config
	Log    *zap.SugaredLogger
}

func (s *Server) Router() *gin.Engine {
	if strings.ToLower(s.Cfg.Env) == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	ops := r.Group("/v1/ops", Auth(s.Cfg.JWTSecret))
	ops.POST("/transferSchoolOwnership", s.handleTransferSchoolOwnership)
	ops.POST("/banUser", s.handleBanUser)
	ops.POST("/moderateContent", s.handleModerateContent)
	ops.POST("/generateClassroomCode", s.handleGenerateClassroomCode)
	ops.POST("/generateSchoolCode", s.handleGenerateSchoolCode)
	ops.POST("/exportUsers", s.handleExportUsers)

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.DB.PingContext(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "db not ok: %v", err)
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	c.String(http.StatusOK, "ok")
}

package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iplayapp/iplay-backend/internal/ctxutil"
	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/metrics"
	"github.com/iplayapp/iplay-backend/internal/models"
)

// opContext derives the request context every operation runs under: op name
// and caller uid for the logs, standard DB timeout.
func opContext(c *gin.Context, op string) (context.Context, context.CancelFunc) {
	ctx := ctxutil.WithOp(c.Request.Context(), op)
	ctx = ctxutil.WithCallerID(ctx, callerID(c))
	return ctxutil.WithDBTimeout(ctx)
}

type transferRequest struct {
	SchoolID       string `json:"schoolId" binding:"required"`
	NewPrincipalID string `json:"newPrincipalId" binding:"required"`
}

func (s *Server) handleTransferSchoolOwnership(c *gin.Context) {
	const op = "transferSchoolOwnership"
	metrics.OpRequests.WithLabelValues(op).Inc()

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, op, Errf(CodeInvalidArgument, "missing required parameters"))
		return
	}

	ctx, cancel := opContext(c, op)
	defer cancel()

	if err := transferSchoolOwnership(ctx, s.DB, callerID(c), req.SchoolID, req.NewPrincipalID); err != nil {
		s.writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "School ownership transferred"})
}

func transferSchoolOwnership(ctx context.Context, database *sql.DB, callerID, schoolID, newPrincipalID string) error {
	school, err := db.GetSchoolByID(ctx, database, schoolID)
	if err != nil {
		return err
	}
	if school == nil {
		return Errf(CodeNotFound, "School not found")
	}
	if school.PrincipalID != callerID {
		return Errf(CodePermissionDenied, "Only the current principal can transfer ownership")
	}
	if err := db.TransferSchoolOwnership(ctx, database, schoolID, callerID, newPrincipalID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Errf(CodeNotFound, "New principal not found")
		}
		return err
	}
	return nil
}

type banRequest struct {
	TargetUserID string `json:"targetUserId" binding:"required"`
	Reason       string `json:"reason"`
}

const (
	defaultBanReason           = "Violation of terms"
	defaultModerationBanReason = "Policy violation"
)

func (s *Server) handleBanUser(c *gin.Context) {
	const op = "banUser"
	metrics.OpRequests.WithLabelValues(op).Inc()

	var req banRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, op, Errf(CodeInvalidArgument, "missing targetUserId"))
		return
	}

	ctx, cancel := opContext(c, op)
	defer cancel()

	if err := banUser(ctx, s.DB, callerID(c), req.TargetUserID, req.Reason); err != nil {
		s.writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User banned successfully"})
}

func banUser(ctx context.Context, database *sql.DB, callerID, targetID, reason string) error {
	if err := requireAdmin(ctx, database, callerID); err != nil {
		return err
	}
	if reason == "" {
		reason = defaultBanReason
	}
	if err := db.BanUser(ctx, database, targetID, callerID, reason, time.Now().UTC()); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Errf(CodeNotFound, "User not found")
		}
		return err
	}
	return nil
}

type moderateRequest struct {
	ReportID   string `json:"reportId" binding:"required"`
	Action     string `json:"action" binding:"required"`
	Resolution string `json:"resolution"`
}

var moderationActions = map[string]bool{
	"dismiss": true,
	"delete":  true,
	"ban":     true,
	"other":   true,
}

func (s *Server) handleModerateContent(c *gin.Context) {
	const op = "moderateContent"
	metrics.OpRequests.WithLabelValues(op).Inc()

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, op, Errf(CodeInvalidArgument, "missing reportId or action"))
		return
	}

	ctx, cancel := opContext(c, op)
	defer cancel()

	if err := moderateContent(ctx, s.DB, callerID(c), req.ReportID, req.Action, req.Resolution); err != nil {
		s.writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func moderateContent(ctx context.Context, database *sql.DB, callerID, reportID, action, resolution string) error {
	if !moderationActions[action] {
		return Errf(CodeInvalidArgument, "unknown action %q", action)
	}
	if err := requireAdmin(ctx, database, callerID); err != nil {
		return err
	}

	report, err := db.GetReportByID(ctx, database, reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return Errf(CodeNotFound, "Report not found")
	}

	status := models.ReportResolved
	if action == "dismiss" {
		status = models.ReportDismissed
	}
	if resolution == "" {
		resolution = "Action: " + action
	}
	res := db.ReportResolution{
		Status:     status,
		Resolution: resolution,
		ReviewedBy: callerID,
		ReviewedAt: time.Now().UTC(),
		DeleteItem: action == "delete",
		// TODO: confirm with the product owner that the ban action is meant
		// to flag the reporting user rather than the reported item's owner.
		BanReporter: action == "ban",
		BanReason:   defaultModerationBanReason,
	}
	if err := db.ResolveReport(ctx, database, report, res); err != nil {
		if errors.Is(err, db.ErrUnknownCollection) {
			return Errf(CodeInvalidArgument, "report item type %q cannot be deleted", report.ReportType)
		}
		return err
	}
	return nil
}

func requireAdmin(ctx context.Context, database *sql.DB, callerID string) error {
	caller, err := db.GetUserByID(ctx, database, callerID)
	if err != nil {
		return err
	}
	if caller == nil || caller.Role != models.RoleAdmin {
		return Errf(CodePermissionDenied, "Admin access required")
	}
	return nil
}

func (s *Server) handleGenerateClassroomCode(c *gin.Context) {
	s.handleGenerateCode(c, "generateClassroomCode", classroomCodePrefix, db.ClassroomCodeExists)
}

func (s *Server) handleGenerateSchoolCode(c *gin.Context) {
	s.handleGenerateCode(c, "generateSchoolCode", schoolCodePrefix, db.SchoolCodeExists)
}

func (s *Server) handleGenerateCode(c *gin.Context, op, prefix string, exists func(context.Context, *sql.DB, string) (bool, error)) {
	metrics.OpRequests.WithLabelValues(op).Inc()

	ctx, cancel := opContext(c, op)
	defer cancel()

	code, err := generateUniqueCode(ctx, prefix, func(ctx context.Context, code string) (bool, error) {
		return exists(ctx, s.DB, code)
	})
	if err != nil {
		s.writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

func (s *Server) handleExportUsers(c *gin.Context) {
	const op = "exportUsers"
	metrics.OpRequests.WithLabelValues(op).Inc()

	ctx, cancel := opContext(c, op)
	defer cancel()

	key, err := s.exportUsers(ctx, callerID(c))
	if err != nil {
		s.writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "key": key})
}

func boolString(b bool) string {
	return fmt.Sprintf("%t", b)
}

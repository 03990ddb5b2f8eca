package dashboardapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MarkoPoloResearchLab/logidash/internal/provider"
	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"github.com/gin-gonic/gin"
	"github.com/tyemirov/tauth/pkg/sessionvalidator"
	"go.uber.org/zap"
)

const (
	errorCodeInvalidQuery      = "invalid_query"
	errorCodeLoading           = "loading"
	errorCodeSourceUnavailable = "source_unavailable"
	errorCodeInternal          = "internal_error"
	errorCodeUnauthorized      = "unauthorized"
)

// Every successful payload carries the freshness of the snapshot it was derived from.
type dataResponse struct {
	dashboard.Snapshot
	dashboard.Freshness
}

type dashboardResponse struct {
	dashboard.Dashboard
	dashboard.Freshness
}

type accountsResponse struct {
	dashboard.AccountPage
	dashboard.Freshness
}

type complianceResponse struct {
	dashboard.ComplianceReport
	dashboard.Freshness
}

type httpHandler struct {
	service *dashboard.Service
	status  StatusReporter
	timeout time.Duration
	logger  *zap.Logger
}

func (handler *httpHandler) handleSession(ctx *gin.Context) {
	claims := getClaims(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, errorResponse(errorCodeUnauthorized, "missing session"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"user_id": claims.GetUserID(),
		"email":   claims.GetUserEmail(),
		"display": claims.GetUserDisplayName(),
		"expires": claims.GetExpiresAt().Unix(),
	})
}

func (handler *httpHandler) handleStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, handler.currentStatus())
}

func (handler *httpHandler) handleData(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	snapshot, err := handler.service.Snapshot(requestCtx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dataResponse{Snapshot: snapshot, Freshness: snapshot.Freshness})
}

func (handler *httpHandler) handleDashboard(ctx *gin.Context) {
	var query criteriaQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidQuery, describeBindingError(err)))
		return
	}
	criteria, err := query.criteria()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidQuery, err.Error()))
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	result, err := handler.service.Dashboard(requestCtx, criteria)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dashboardResponse{Dashboard: result, Freshness: result.Freshness})
}

func (handler *httpHandler) handleAccounts(ctx *gin.Context) {
	var query tableQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidQuery, describeBindingError(err)))
		return
	}
	criteria, err := query.criteria()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidQuery, err.Error()))
		return
	}
	table, err := query.tableQuery()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidQuery, err.Error()))
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	page, err := handler.service.AccountTable(requestCtx, criteria, table)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, accountsResponse{AccountPage: page, Freshness: page.Freshness})
}

func (handler *httpHandler) handleCompliance(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	report, err := handler.service.Compliance(requestCtx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, complianceResponse{ComplianceReport: report, Freshness: report.Freshness})
}

func (handler *httpHandler) requestContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), handler.timeout)
}

func (handler *httpHandler) currentStatus() provider.Status {
	if handler.status == nil {
		return provider.Status{Ready: true}
	}
	return handler.status.Status()
}

func (handler *httpHandler) respondError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	switch {
	case errors.Is(err, dashboard.ErrSnapshotNotReady):
		ctx.JSON(http.StatusServiceUnavailable, errorResponse(errorCodeLoading, "snapshot is loading"))
	case errors.Is(err, dashboard.ErrSourceUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, errorResponse(errorCodeSourceUnavailable, err.Error()))
	case isQueryError(err):
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidQuery, err.Error()))
	default:
		requestLogger(ctx).Error("dashboard request failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse(errorCodeInternal, "internal error"))
	}
}

var queryErrors = []error{
	dashboard.ErrInvalidBranchID,
	dashboard.ErrInvalidBalanceRange,
	dashboard.ErrInvalidAccountStatus,
	dashboard.ErrInvalidYear,
	dashboard.ErrInvalidSortField,
	dashboard.ErrInvalidSortDirection,
	dashboard.ErrInvalidPage,
	dashboard.ErrInvalidPageSize,
}

func isQueryError(err error) bool {
	for _, target := range queryErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func getClaims(ctx *gin.Context) *sessionvalidator.Claims {
	claimsValue, ok := ctx.Get(contextKeyAuthClaims)
	if !ok {
		return nil
	}
	claims, _ := claimsValue.(*sessionvalidator.Claims)
	return claims
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

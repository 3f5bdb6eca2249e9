// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinic-finance/backend/internal/application/usecase/dashboard"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/dto"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/middleware"
)

// DashboardController handles dashboard endpoints.
type DashboardController struct {
	getSnapshotUseCase          *dashboard.GetSnapshotUseCase
	getCategoryBreakdownUseCase *dashboard.GetCategoryBreakdownUseCase
	getDoctorBreakdownUseCase   *dashboard.GetDoctorBreakdownUseCase
	getDailyTrendUseCase        *dashboard.GetDailyTrendUseCase
}

// NewDashboardController creates a new dashboard controller instance.
func NewDashboardController(
	getSnapshotUseCase *dashboard.GetSnapshotUseCase,
	getCategoryBreakdownUseCase *dashboard.GetCategoryBreakdownUseCase,
	getDoctorBreakdownUseCase *dashboard.GetDoctorBreakdownUseCase,
	getDailyTrendUseCase *dashboard.GetDailyTrendUseCase,
) *DashboardController {
	return &DashboardController{
		getSnapshotUseCase:          getSnapshotUseCase,
		getCategoryBreakdownUseCase: getCategoryBreakdownUseCase,
		getDoctorBreakdownUseCase:   getDoctorBreakdownUseCase,
		getDailyTrendUseCase:        getDailyTrendUseCase,
	}
}

// GetMetrics handles GET /dashboard/metrics requests.
func (c *DashboardController) GetMetrics(ctx *gin.Context) {
	output, err := c.getSnapshotUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleDashboardError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMetricsResponse(output))
}

// GetCategoryBreakdown handles GET /dashboard/categories requests.
func (c *DashboardController) GetCategoryBreakdown(ctx *gin.Context) {
	input := dashboard.GetCategoryBreakdownInput{}
	if topStr := ctx.Query("top"); topStr != "" {
		top, err := strconv.Atoi(topStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "top must be an integer",
				Code:  string(domainerror.ErrCodeInvalidTopN),
			})
			return
		}
		input.Top = top
	}

	output, err := c.getCategoryBreakdownUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleDashboardError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryBreakdownResponse(output))
}

// GetDoctorBreakdown handles GET /dashboard/doctors requests.
func (c *DashboardController) GetDoctorBreakdown(ctx *gin.Context) {
	output, err := c.getDoctorBreakdownUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleDashboardError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDoctorBreakdownResponse(output))
}

// GetDailyTrend handles GET /dashboard/trends requests.
func (c *DashboardController) GetDailyTrend(ctx *gin.Context) {
	input := dashboard.GetDailyTrendInput{}
	if bucketsStr := ctx.Query("buckets"); bucketsStr != "" {
		buckets, err := strconv.Atoi(bucketsStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "buckets must be an integer",
				Code:  string(domainerror.ErrCodeInvalidBucketCount),
			})
			return
		}
		input.Buckets = buckets
	}

	output, err := c.getDailyTrendUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleDashboardError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDailyTrendResponse(output))
}

// handleDashboardError handles dashboard errors and returns appropriate HTTP responses.
func (c *DashboardController) handleDashboardError(ctx *gin.Context, err error) {
	var dashErr *domainerror.DashboardError
	if errors.As(err, &dashErr) {
		statusCode := c.getStatusCodeForDashboardError(dashErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: dashErr.Message,
			Code:  string(dashErr.Code),
		})
		return
	}

	// Generic server error
	middleware.LoggerFromContext(ctx).Error("Failed to compute dashboard", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeDashboardInternalError),
	})
}

// getStatusCodeForDashboardError maps dashboard error codes to HTTP status codes.
func (c *DashboardController) getStatusCodeForDashboardError(code domainerror.DashboardErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidTopN,
		domainerror.ErrCodeInvalidBucketCount:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

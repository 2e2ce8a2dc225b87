package controller

import (
	"errors"
	"fmt"
	"net/http"
	"peerlearn_backend/internal/service"
	"peerlearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InsightController struct {
	ComparisonService *service.ComparisonService
	ExportService     *service.ExportService
}

func NewInsightController(comparisonService *service.ComparisonService, exportService *service.ExportService) *InsightController {
	return &InsightController{
		ComparisonService: comparisonService,
		ExportService:     exportService,
	}
}

// GetInsight godoc
// @Summary 同伴对比洞察
// @Description 当前用户在活动中的完整对比：按视频分组的单题对比、均分和相对排位
// @Tags 洞察
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response{data=model.CampaignInsight} "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/campaigns/{id}/insight [get]
func (c *InsightController) GetInsight(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	insight, err := c.ComparisonService.LoadInsight(ctx.Request.Context(), ctx.Param("id"), claims.OrganizationID, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, insight)
}

// GetComparison godoc
// @Summary 同伴对比分组
// @Description 只返回按视频分组的对比结果，不带活动级汇总
// @Tags 洞察
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response{data=[]model.VideoGroup} "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/campaigns/{id}/comparison [get]
func (c *InsightController) GetComparison(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	groups, err := c.ComparisonService.LoadComparison(ctx.Request.Context(), ctx.Param("id"), claims.OrganizationID, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, groups)
}

// Export godoc
// @Summary 导出对比报表
// @Description 把当前用户的对比结果导出为 XLSX 文件
// @Tags 洞察
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {file} file "XLSX 报表"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/campaigns/{id}/insight/export [get]
func (c *InsightController) Export(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	campaignID := ctx.Param("id")
	buf, err := c.ExportService.ExportInsight(ctx.Request.Context(), campaignID, claims.OrganizationID, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	filename := fmt.Sprintf("insight-%s.xlsx", campaignID)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, util.MimeXLSX, buf.Bytes())
}

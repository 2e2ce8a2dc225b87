package controller

import (
	"errors"
	"peerlearn_backend/internal/service"
	"peerlearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResponseController struct {
	ResponseService *service.ResponseService
}

func NewResponseController(responseService *service.ResponseService) *ResponseController {
	return &ResponseController{ResponseService: responseService}
}

// Submit godoc
// @Summary 提交活动回答
// @Description 提交一批题目回答。重复提交会追加记录而非覆盖
// @Tags 回答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Param   body body service.SubmitResponsesRequest true "回答列表"
// @Success 201 {object} util.Response{data=object} "提交成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/campaigns/{id}/responses [post]
func (c *ResponseController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitResponsesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	records, err := c.ResponseService.Submit(ctx.Request.Context(), ctx.Param("id"), claims.OrganizationID, claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"count": len(records)})
}

// ListOwn godoc
// @Summary 我的回答记录
// @Description 当前用户在该活动下的全部历史回答
// @Tags 回答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response{data=[]model.ResponseRecord} "成功"
// @Router /api/campaigns/{id}/responses/mine [get]
func (c *ResponseController) ListOwn(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.ResponseService.ListOwn(ctx.Param("id"), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, records)
}

// Participation godoc
// @Summary 活动参与统计
// @Description 活动下的回答总数与去重后的参与人数（管理端）
// @Tags 回答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response{data=service.ParticipationStats} "成功"
// @Router /api/admin/campaigns/{id}/participation [get]
func (c *ResponseController) Participation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.ResponseService.Participation(ctx.Param("id"), claims.OrganizationID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

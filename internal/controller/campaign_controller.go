package controller

import (
	"errors"
	"peerlearn_backend/internal/service"
	"peerlearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

func NewCampaignController(campaignService *service.CampaignService) *CampaignController {
	return &CampaignController{CampaignService: campaignService}
}

// Create godoc
// @Summary 创建学习活动
// @Description 创建一个活动及其视频环节
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CampaignRequest true "活动定义"
// @Success 201 {object} util.Response{data=model.Campaign} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/campaigns [post]
func (c *CampaignController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	campaign, err := c.CampaignService.Create(claims.OrganizationID, claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, campaign)
}

// Get godoc
// @Summary 获取活动详情
// @Tags 活动
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response{data=model.Campaign} "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/campaigns/{id} [get]
func (c *CampaignController) Get(ctx *gin.Context) {
	campaign, err := c.CampaignService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, campaign)
}

// List godoc
// @Summary 活动列表
// @Description 分页列出当前组织的活动
// @Tags 活动
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/campaigns [get]
func (c *CampaignController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	campaigns, total, err := c.CampaignService.List(claims.OrganizationID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  campaigns,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Update godoc
// @Summary 更新活动
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Param   body body service.CampaignRequest true "活动定义"
// @Success 200 {object} util.Response{data=model.Campaign} "成功"
// @Failure 403 {object} util.Response "无权操作"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/admin/campaigns/{id} [put]
func (c *CampaignController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	campaign, err := c.CampaignService.Update(ctx.Param("id"), claims.OrganizationID, req)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	util.Success(ctx, campaign)
}

// Publish godoc
// @Summary 发布活动
// @Description 发布后活动对员工可见并开放答题
// @Tags 活动
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response{data=model.Campaign} "成功"
// @Router /api/admin/campaigns/{id}/publish [post]
func (c *CampaignController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	campaign, err := c.CampaignService.Publish(ctx.Param("id"), claims.OrganizationID)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	util.Success(ctx, campaign)
}

// Delete godoc
// @Summary 删除活动
// @Tags 活动
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/campaigns/{id} [delete]
func (c *CampaignController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CampaignService.Delete(ctx.Param("id"), claims.OrganizationID); err != nil {
		c.writeError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

func (c *CampaignController) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCampaignNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

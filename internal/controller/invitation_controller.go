package controller

import (
	"errors"
	"peerlearn_backend/internal/service"
	"peerlearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InvitationController struct {
	InvitationService *service.InvitationService
}

func NewInvitationController(invitationService *service.InvitationService) *InvitationController {
	return &InvitationController{InvitationService: invitationService}
}

// Invite godoc
// @Summary 批量发送活动邀请
// @Description 为一批邮箱创建邀请令牌（管理端）
// @Tags 邀请
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Param   body body service.InviteRequest true "邀请对象"
// @Success 201 {object} util.Response{data=[]model.Invitation} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/campaigns/{id}/invitations [post]
func (c *InvitationController) Invite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	invs, err := c.InvitationService.Invite(ctx.Param("id"), claims.OrganizationID, claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, invs)
}

// List godoc
// @Summary 活动邀请列表
// @Tags 邀请
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/campaigns/{id}/invitations [get]
func (c *InvitationController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	invs, total, err := c.InvitationService.List(ctx.Param("id"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  invs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Preview godoc
// @Summary 查看邀请
// @Description 邀请落地页用：不要求登录，返回邀请的基本信息和有效性
// @Tags 邀请
// @Produce  json
// @Param   token path string true "邀请令牌"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "邀请不存在"
// @Router /api/invitations/{token} [get]
func (c *InvitationController) Preview(ctx *gin.Context) {
	inv, err := c.InvitationService.Preview(ctx.Param("token"))
	if err != nil {
		if errors.Is(err, util.ErrInviteNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"email":      inv.Email,
		"campaignId": inv.CampaignID,
		"status":     inv.Status,
		"expiresAt":  inv.ExpiresAt,
	})
}

// Accept godoc
// @Summary 兑换邀请
// @Description 受邀用户用令牌兑换邀请并加入组织
// @Tags 邀请
// @Produce  json
// @Security ApiKeyAuth
// @Param   token path string true "邀请令牌"
// @Success 200 {object} util.Response{data=model.Invitation} "成功"
// @Failure 404 {object} util.Response "邀请不存在"
// @Failure 410 {object} util.Response "邀请已过期"
// @Router /api/invitations/{token}/accept [post]
func (c *InvitationController) Accept(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	inv, err := c.InvitationService.Accept(ctx.Param("token"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInviteNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInviteExpired):
			util.Error(ctx, 410, "邀请已过期或已撤销")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, inv)
}

// Revoke godoc
// @Summary 撤销邀请
// @Tags 邀请
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "邀请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "邀请不存在"
// @Router /api/admin/invitations/{id} [delete]
func (c *InvitationController) Revoke(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.InvitationService.Revoke(ctx.Param("id"), claims.OrganizationID); err != nil {
		switch {
		case errors.Is(err, util.ErrInviteNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

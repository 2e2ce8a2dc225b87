package controller

import (
	"errors"
	"peerlearn_backend/internal/service"
	"peerlearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GenerationController struct {
	GenerationService *service.GenerationService
}

func NewGenerationController(generationService *service.GenerationService) *GenerationController {
	return &GenerationController{GenerationService: generationService}
}

// Enqueue godoc
// @Summary 提交视频生成任务
// @Description 按分镜描述生成片段并拼接成片，任务异步执行
// @Tags 制作台
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "视频ID"
// @Param   body body service.GenerateRequest true "分镜列表"
// @Success 201 {object} util.Response{data=model.GenerationJob} "任务已入队"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/admin/videos/{id}/generate [post]
func (c *GenerationController) Enqueue(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(req.Shots) == 0 {
		util.BadRequest(ctx, "at least one shot is required")
		return
	}

	job, err := c.GenerationService.Enqueue(ctx.Param("id"), claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, job)
}

// Get godoc
// @Summary 查询生成任务状态
// @Tags 制作台
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "任务ID"
// @Success 200 {object} util.Response{data=model.GenerationJob} "成功"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/admin/generation-jobs/{id} [get]
func (c *GenerationController) Get(ctx *gin.Context) {
	job, err := c.GenerationService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrJobNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, job)
}

// ListByVideo godoc
// @Summary 视频的生成任务历史
// @Tags 制作台
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "视频ID"
// @Success 200 {object} util.Response{data=[]model.GenerationJob} "成功"
// @Router /api/admin/videos/{id}/generation-jobs [get]
func (c *GenerationController) ListByVideo(ctx *gin.Context) {
	jobs, err := c.GenerationService.ListByVideo(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, jobs)
}

package controller

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"peerlearn_backend/internal/service"
	"peerlearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VideoController struct {
	VideoService   *service.VideoService
	StorageService *service.StorageService
}

func NewVideoController(videoService *service.VideoService, storageService *service.StorageService) *VideoController {
	return &VideoController{VideoService: videoService, StorageService: storageService}
}

// Create godoc
// @Summary 创建视频
// @Description 创建视频条目及其题目定义
// @Tags 视频
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.VideoRequest true "视频定义"
// @Success 201 {object} util.Response{data=model.Video} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/videos [post]
func (c *VideoController) Create(ctx *gin.Context) {
	var req service.VideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	video, err := c.VideoService.Create(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, video)
}

// Get godoc
// @Summary 获取视频详情
// @Tags 视频
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "视频ID"
// @Success 200 {object} util.Response{data=model.Video} "成功"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/videos/{id} [get]
func (c *VideoController) Get(ctx *gin.Context) {
	video, err := c.VideoService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	resp := gin.H{
		"id":          video.ID,
		"title":       video.Title,
		"description": video.Description,
		"status":      video.Status,
		"duration":    video.Duration,
		"width":       video.Width,
		"height":      video.Height,
		"questions":   video.Questions,
	}
	if video.ObjectKey != "" {
		resp["url"] = c.StorageService.Provider.GetURL(video.ObjectKey)
	}

	util.Success(ctx, resp)
}

// List godoc
// @Summary 视频列表
// @Tags 视频
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/videos [get]
func (c *VideoController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	videos, total, err := c.VideoService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  videos,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Update godoc
// @Summary 更新视频
// @Tags 视频
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "视频ID"
// @Param   body body service.VideoRequest true "视频定义"
// @Success 200 {object} util.Response{data=model.Video} "成功"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/admin/videos/{id} [put]
func (c *VideoController) Update(ctx *gin.Context) {
	var req service.VideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	video, err := c.VideoService.Update(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, video)
}

// Upload godoc
// @Summary 上传视频文件
// @Description 上传成片并绑定到视频条目，服务端校验文件类型并探测时长分辨率
// @Tags 视频
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "视频ID"
// @Param   file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Video} "成功"
// @Failure 400 {object} util.Response "文件类型不合法"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/admin/videos/{id}/upload [post]
func (c *VideoController) Upload(ctx *gin.Context) {
	video, err := c.VideoService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{"video/"}); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// ValidateMimeType 已消费了头部字节，落盘前回到文件开头
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%s%s", video.ID, filepath.Ext(fileHeader.Filename)))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "unreadable video file")
		return
	}

	objectKey := fmt.Sprintf("videos/%s/source%s", video.ID, filepath.Ext(fileHeader.Filename))
	if _, err := c.StorageService.Provider.UploadFile(ctx.Request.Context(), objectKey, tmpPath, util.MimeVideo); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	updated, err := c.VideoService.AttachMedia(video.ID, objectKey, info)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}

// Delete godoc
// @Summary 删除视频
// @Tags 视频
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "视频ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/videos/{id} [delete]
func (c *VideoController) Delete(ctx *gin.Context) {
	if err := c.VideoService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

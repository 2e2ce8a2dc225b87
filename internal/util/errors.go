package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrVideoNotFound      = errors.New("video not found")
	ErrInviteNotFound     = errors.New("invitation not found")
	ErrInviteExpired      = errors.New("invitation expired or revoked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrJobNotFound        = errors.New("generation job not found")
)

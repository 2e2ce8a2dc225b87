package service

import (
	"errors"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/internal/repository"
	"peerlearn_backend/internal/util"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationService struct {
	Repo     *repository.InvitationRepository
	UserRepo *repository.UserRepository
}

func NewInvitationService(repo *repository.InvitationRepository, userRepo *repository.UserRepository) *InvitationService {
	return &InvitationService{Repo: repo, UserRepo: userRepo}
}

type InviteRequest struct {
	Emails     []string       `json:"emails" binding:"required"`
	Role       model.UserRole `json:"role"`
	ExpireDays int            `json:"expireDays"`
}

// Invite 为一批邮箱创建活动邀请；同一邮箱已有未处理邀请时跳过
func (s *InvitationService) Invite(campaignID string, orgID, inviterID uint, req InviteRequest) ([]model.Invitation, error) {
	role := req.Role
	if role == "" {
		role = model.Employee
	}
	expireDays := req.ExpireDays
	if expireDays <= 0 {
		expireDays = 14
	}

	invs := make([]model.Invitation, 0, len(req.Emails))
	for _, email := range req.Emails {
		if _, err := s.Repo.FindPendingByEmail(campaignID, email); err == nil {
			continue
		}

		inv := model.Invitation{
			OrganizationID: orgID,
			CampaignID:     campaignID,
			Email:          email,
			Token:          uuid.New().String(),
			Role:           role,
			Status:         model.InvitePending,
			InviterID:      inviterID,
			ExpiresAt:      time.Now().AddDate(0, 0, expireDays),
		}
		if err := s.Repo.Create(&inv); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, nil
}

func (s *InvitationService) List(campaignID string, page, limit int) ([]model.Invitation, int64, error) {
	return s.Repo.ListByCampaign(campaignID, page, limit)
}

// Preview 落地页展示用：按令牌取邀请，过期的现场改写状态
func (s *InvitationService) Preview(token string) (*model.Invitation, error) {
	inv, err := s.Repo.FindByToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}

	if inv.Status == model.InvitePending && time.Now().After(inv.ExpiresAt) {
		inv.Status = model.InviteExpired
		s.Repo.Update(inv)
	}
	return inv, nil
}

// Accept 受邀人点开链接后兑换邀请；已过期或撤销的拒绝
func (s *InvitationService) Accept(token string, userID uint) (*model.Invitation, error) {
	inv, err := s.Repo.FindByToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}

	if inv.Status != model.InvitePending || time.Now().After(inv.ExpiresAt) {
		return nil, util.ErrInviteExpired
	}

	now := time.Now()
	inv.Status = model.InviteAccepted
	inv.AcceptedAt = &now
	if err := s.Repo.Update(inv); err != nil {
		return nil, err
	}

	// 受邀用户挂到邀请所属组织下
	if user, err := s.UserRepo.FindByID(userID); err == nil && user.OrganizationID == 0 {
		user.OrganizationID = inv.OrganizationID
		s.UserRepo.Update(user)
	}

	return inv, nil
}

func (s *InvitationService) Revoke(id string, orgID uint) error {
	inv, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrInviteNotFound
	}
	if err != nil {
		return err
	}
	if inv.OrganizationID != orgID {
		return util.ErrPermissionDenied
	}

	inv.Status = model.InviteRevoked
	return s.Repo.Update(inv)
}

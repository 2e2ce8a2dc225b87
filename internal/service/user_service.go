package service

import (
	"peerlearn_backend/internal/model"
	"peerlearn_backend/internal/repository"
)

type UserService struct {
	UserRepo *repository.UserRepository
	OrgRepo  *repository.OrganizationRepository
}

func NewUserService(userRepo *repository.UserRepository, orgRepo *repository.OrganizationRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
		OrgRepo:  orgRepo,
	}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(userID)
}

type ProfileUpdateRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	JobTitle   string `json:"jobTitle"`
	Language   string `json:"language"`
	Avatar     string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Department != "" {
		user.Department = req.Department
	}
	if req.JobTitle != "" {
		user.JobTitle = req.JobTitle
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListEmployees 管理端的组织员工名册
func (s *UserService) ListEmployees(orgID uint, page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.ListByOrganization(orgID, page, limit)
}

func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	return s.UserRepo.SetDisabled(userID, disabled)
}

func (s *UserService) GetOrganization(orgID uint) (*model.Organization, error) {
	return s.OrgRepo.FindByID(orgID)
}

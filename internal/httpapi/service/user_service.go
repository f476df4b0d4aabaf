package service

import (
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

type UserService interface {
	List(search string, page, pageSize int) (*dto.PaginatedResponse[dto.UserResponse], error)
	Create(req dto.CreateUserRequest) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UpdateByUsername(username string, req dto.UpdateUserRequest) (*models.User, error)
	DeleteByUsername(username string) error
	UpdateSelf(userID int64, req dto.UpdateUserRequest) (*models.User, error)
	GetByID(id int64) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(search string, page, pageSize int) (*dto.PaginatedResponse[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.UserFromModel(&users[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(req dto.CreateUserRequest) (*models.User, error) {
	if !ValidUsername(req.Username) {
		return nil, ErrInvalidUsername
	}
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return nil, resolveUserConflict(s.userRepo, 0, user.Username)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateByUsername is the admin path: every field including role is mutable.
func (s *userService) UpdateByUsername(username string, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.apply(user, req, true)
}

// UpdateSelf is the /me path: a submitted role is ignored, not rejected.
func (s *userService) UpdateSelf(userID int64, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.apply(user, req, false)
}

func (s *userService) apply(user *models.User, req dto.UpdateUserRequest, allowRole bool) (*models.User, error) {
	if req.Username != nil && *req.Username != user.Username {
		if !ValidUsername(*req.Username) {
			return nil, ErrInvalidUsername
		}
		if _, err := s.userRepo.FindByUsername(*req.Username); err == nil {
			return nil, ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*req.Email); err == nil {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil && allowRole {
		user.Role = *req.Role
	}

	if err := s.userRepo.Save(user); err != nil {
		if isUniqueViolation(err) {
			return nil, resolveUserConflict(s.userRepo, user.ID, user.Username)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteByUsername(username string) error {
	user, err := s.GetByUsername(username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(user)
}

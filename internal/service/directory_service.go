package service

import (
	"context"

	"github.com/tallyup/tallyup/internal/apperr"
	"github.com/tallyup/tallyup/internal/models"
	"github.com/tallyup/tallyup/internal/storage"
)

// DirectoryService manages the user and group records the engine's balance
// views decorate counterparties with. Plain CRUD, no settlement logic.
type DirectoryService struct {
	store storage.Store
}

// NewDirectoryService creates a DirectoryService.
func NewDirectoryService(store storage.Store) *DirectoryService {
	return &DirectoryService{store: store}
}

// CreateUser registers a user.
func (s *DirectoryService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	if name == "" || email == "" {
		return nil, apperr.BadInput("user requires both a name and an email")
	}
	user := &models.User{Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *DirectoryService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// CreateGroup registers a group with its initial members.
func (s *DirectoryService) CreateGroup(ctx context.Context, name string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, apperr.BadInput("group requires a name")
	}
	group := &models.Group{Name: name, MemberIDs: memberIDs}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *DirectoryService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

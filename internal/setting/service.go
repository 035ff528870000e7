package setting

import (
	"context"
	"strings"

	"github.com/abcscribe/abcscribe/pkg/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Name        string
	Description string
}

func (service *Service) Create(context context.Context, userID string, input Input) (*Setting, error) {
	setting := &Setting{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}
	if err := service.repo.Create(context, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

func (service *Service) List(context context.Context, userID string) ([]*Setting, error) {
	return service.repo.List(context, userID)
}

func (service *Service) Get(context context.Context, userID, id string) (*Setting, error) {
	return service.repo.FindByID(context, userID, id)
}

func (service *Service) Update(context context.Context, userID, id string, input Input) (*Setting, error) {
	setting, err := service.repo.FindByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	setting.Name = strings.TrimSpace(input.Name)
	setting.Description = input.Description

	if err := service.repo.Update(context, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

func (service *Service) Delete(context context.Context, userID, id string) error {
	return service.repo.Delete(context, userID, id)
}

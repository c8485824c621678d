package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/storage"
)

// AssignRole назначает пользователю роль. Строка роли валидируется здесь —
// единственной точке входа изменения ролей; дальше по коду роль считается
// корректной.
func (s *Service) AssignRole(ctx context.Context, userID uuid.UUID, rawRole string) (models.Role, error) {
	const op = "service.users.AssignRole"

	role, ok := models.ParseRole(rawRole)
	if !ok {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidRole)
	}

	if err := s.storage.UpdateUserRole(ctx, userID, role); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return role, nil
}

// RolesOverview возвращает всех пользователей, сгруппированных по ролям.
func (s *Service) RolesOverview(ctx context.Context) (owners, collaborators []models.User, err error) {
	const op = "service.users.RolesOverview"

	owners, err = s.storage.UsersByRole(ctx, models.RoleOwner)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	collaborators, err = s.storage.UsersByRole(ctx, models.RoleCollaborator)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return owners, collaborators, nil
}

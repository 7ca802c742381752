package usecases

import (
	"context"

	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

// ResolveTargetUsersUseCase expands target roles into the users holding them
// at call time. Nothing is cached.
type ResolveTargetUsersUseCase struct {
	directory RoleDirectory
	logger    logger.Interface
}

func NewResolveTargetUsersUseCase(directory RoleDirectory, logger logger.Interface) *ResolveTargetUsersUseCase {
	return &ResolveTargetUsersUseCase{
		directory: directory,
		logger:    logger,
	}
}

// Execute returns the union of users holding any of roles. A directory failure
// is reported as unavailable so callers can retry.
func (uc *ResolveTargetUsersUseCase) Execute(ctx context.Context, roles vo.TargetRoles) ([]uint, error) {
	if roles.IsEmpty() {
		return []uint{}, nil
	}

	users, err := uc.directory.UsersForRoles(ctx, roles.Names())
	if err != nil {
		uc.logger.Errorw("failed to resolve users for roles", "roles", roles.Names(), "error", err)
		return nil, errors.NewUnavailableError("role directory is unavailable", err)
	}

	uc.logger.Debugw("resolved target users", "roles", roles.Names(), "users", len(users))
	return users, nil
}

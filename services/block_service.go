package services

import (
	"log/slog"

	"github.com/google/uuid"

	"matchtalk/errors"
	"matchtalk/repositories"
)

// Toggle outcomes, mirrored verbatim in the API response.
const (
	ToggleBlocked   = "blocked"
	ToggleUnblocked = "unblocked"
)

type IBlockService interface {
	Toggle(actorID, targetID uuid.UUID) (string, error)
}

type BlockService struct {
	blocks repositories.IBlockRepository
	users  repositories.IUserRepository
	log    *slog.Logger
}

func NewBlockService(blocks repositories.IBlockRepository, users repositories.IUserRepository, log *slog.Logger) *BlockService {
	return &BlockService{blocks: blocks, users: users, log: log}
}

// Toggle blocks the target if no edge exists, unblocks otherwise.
// Self-blocking is rejected before any mutation.
func (s *BlockService) Toggle(actorID, targetID uuid.UUID) (string, error) {
	if actorID == targetID {
		return "", errors.InvalidOperation("Cannot block yourself")
	}
	if _, err := s.users.Get(targetID); err != nil {
		return "", err
	}

	blocked, err := s.blocks.Toggle(actorID, targetID)
	if err != nil {
		return "", err
	}
	if blocked {
		s.log.Info("user blocked", "actor_id", actorID, "target_id", targetID)
		return ToggleBlocked, nil
	}
	return ToggleUnblocked, nil
}

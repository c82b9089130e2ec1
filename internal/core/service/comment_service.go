package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const defaultRecentLimit = 50

// Authorize is the ownership guard for comment mutation. Only the recorded
// owner is allowed; there is no role override.
func Authorize(actorID, ownerID int64) error {
	if actorID <= 0 || actorID != ownerID {
		return domain.ErrAuthorizationDenied
	}
	return nil
}

type commentService struct {
	comments  ports.CommentRepository
	inventory ports.InventoryRepository
	audit     ports.AuditSink
	log       zerolog.Logger
}

// NewCommentService returns a CommentService implementation.
func NewCommentService(
	comments ports.CommentRepository,
	inventory ports.InventoryRepository,
	audit ports.AuditSink,
	log zerolog.Logger,
) ports.CommentService {
	if audit == nil {
		audit = discardSink{}
	}
	return &commentService{comments: comments, inventory: inventory, audit: audit, log: log}
}

// Post attaches a comment by actorID to an existing vehicle.
func (s *commentService) Post(ctx context.Context, actorID, inventoryID int64, text string) (*domain.Comment, error) {
	if actorID <= 0 {
		return nil, domain.ErrAuthorizationDenied
	}
	if _, err := s.inventory.VehicleByID(ctx, inventoryID); err != nil {
		return nil, fmt.Errorf("post comment: %w", err)
	}

	created, err := s.comments.Insert(ctx, &domain.Comment{
		AccountID:   actorID,
		InventoryID: inventoryID,
		Text:        strings.TrimSpace(text),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("post comment: %w", err)
	}
	return created, nil
}

// ForEdit loads a comment for its owner.
func (s *commentService) ForEdit(ctx context.Context, actorID, commentID int64) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if errors.Is(err, domain.ErrCommentNotFound) {
		s.denied(actorID, commentID)
		return nil, domain.ErrAuthorizationDenied
	}
	if err != nil {
		return nil, fmt.Errorf("load comment: %w", err)
	}
	if err := Authorize(actorID, comment.AccountID); err != nil {
		s.denied(actorID, commentID)
		return nil, err
	}
	return comment, nil
}

// Update replaces the text of a comment owned by actorID.
func (s *commentService) Update(ctx context.Context, actorID, commentID int64, text string) (*domain.Comment, error) {
	comment, err := s.ForEdit(ctx, actorID, commentID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	rows, err := s.comments.Update(ctx, commentID, actorID, text)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	// The row vanished or changed hands between the check and the write.
	if rows == 0 {
		s.denied(actorID, commentID)
		return nil, domain.ErrAuthorizationDenied
	}

	comment.Text = text
	return comment, nil
}

// Delete removes a comment owned by actorID and returns what was removed.
func (s *commentService) Delete(ctx context.Context, actorID, commentID int64) (*domain.Comment, error) {
	comment, err := s.ForEdit(ctx, actorID, commentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.comments.Delete(ctx, commentID, actorID)
	if err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}
	if rows == 0 {
		s.denied(actorID, commentID)
		return nil, domain.ErrAuthorizationDenied
	}
	return comment, nil
}

func (s *commentService) ByInventory(ctx context.Context, inventoryID int64) ([]domain.Comment, error) {
	list, err := s.comments.ListByInventory(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("comments for vehicle %d: %w", inventoryID, err)
	}
	return list, nil
}

func (s *commentService) ByAccount(ctx context.Context, accountID int64) ([]domain.Comment, error) {
	list, err := s.comments.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("comments by account %d: %w", accountID, err)
	}
	return list, nil
}

// Recent lists the newest comments across all vehicles for moderation.
func (s *commentService) Recent(ctx context.Context, limit int) ([]domain.Comment, error) {
	if limit <= 0 || limit > defaultRecentLimit {
		limit = defaultRecentLimit
	}
	list, err := s.comments.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent comments: %w", err)
	}
	return list, nil
}

func (s *commentService) denied(actorID, commentID int64) {
	s.log.Info().Int64("account_id", actorID).Int64("comment_id", commentID).Msg("comment access denied")
	s.audit.Enqueue(domain.AuthEvent{
		Kind:       domain.EventOwnershipDenied,
		AccountID:  actorID,
		OccurredAt: time.Now().UTC(),
	})
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
)

// CommentService owns the comment thread rules: append-only inserts stamped
// with the acting member, author-only deletion.
type CommentService struct {
	store store.Store
	log   zerolog.Logger
}

func NewCommentService(s store.Store, log zerolog.Logger) *CommentService {
	return &CommentService{store: s, log: log}
}

func (s *CommentService) ListForItem(ctx context.Context, contentItemID string) ([]*model.Comment, error) {
	return s.store.Comments().ListByItem(ctx, contentItemID)
}

// Add appends a comment to an item's thread. The item must exist at creation
// time; nothing re-checks the reference afterwards.
func (s *CommentService) Add(ctx context.Context, contentItemID, text, authorID, authorName string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", model.ErrValidation)
	}
	if authorID == "" {
		return nil, fmt.Errorf("%w: author is required", model.ErrValidation)
	}
	if _, err := s.store.ContentItems().Get(ctx, contentItemID); err != nil {
		return nil, err
	}
	return s.store.Comments().Insert(ctx, &model.Comment{
		ContentItemID: contentItemID,
		Text:          text,
		AuthorID:      authorID,
		AuthorName:    authorName,
	})
}

// Delete removes a comment on behalf of actorID. Only the author may delete;
// this is an application rule, the store itself does not enforce it.
func (s *CommentService) Delete(ctx context.Context, id, actorID string) error {
	cm, err := s.store.Comments().Get(ctx, id)
	if err != nil {
		return err
	}
	if cm.AuthorID != actorID {
		return fmt.Errorf("%w: only the author may delete a comment", model.ErrUnauthorized)
	}
	return s.store.Comments().Remove(ctx, id)
}

package service

import (
	"context"
	"errors"
	"strings"

	"galleria/api/internal/ids"
	"galleria/api/internal/models"
)

var ErrEmptyComment = errors.New("comment text required")

type CommentService struct {
	comments CommentStore
	images   ImageStore
	users    UserStore
}

func NewCommentService(comments CommentStore, images ImageStore, users UserStore) *CommentService {
	return &CommentService{
		comments: comments,
		images:   images,
		users:    users,
	}
}

func (s *CommentService) Add(ctx context.Context, userID, imageID, text string) (CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return CommentView{}, ErrEmptyComment
	}

	if _, err := s.images.GetByID(ctx, imageID); err != nil {
		return CommentView{}, err
	}

	// The author must resolve before anything is stored.
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return CommentView{}, err
	}

	comment := models.Comment{
		ID:        ids.New(),
		ImageID:   imageID,
		UserID:    userID,
		Text:      text,
		CreatedAt: nowUTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return CommentView{}, err
	}
	return newCommentView(comment, newUserSummary(author)), nil
}

// ListForImage returns an image's comments newest first, each carrying the
// commenter's public profile.
func (s *CommentService) ListForImage(ctx context.Context, imageID string) ([]CommentView, error) {
	comments, err := s.comments.ListByImage(ctx, imageID)
	if err != nil {
		return nil, err
	}

	userIDSet := make(map[string]struct{}, len(comments))
	for _, comment := range comments {
		userIDSet[comment.UserID] = struct{}{}
	}
	userIDs := make([]string, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}

	authors, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	summaries := make(map[string]UserSummary, len(authors))
	for _, user := range authors {
		summaries[user.ID] = newUserSummary(user)
	}

	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, newCommentView(comment, summaries[comment.UserID]))
	}
	return views, nil
}

func newCommentView(comment models.Comment, author UserSummary) CommentView {
	return CommentView{
		ID:        comment.ID,
		ImageID:   comment.ImageID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		User:      author,
	}
}

package service

import (
	"context"
	"time"

	"galleria/api/internal/models"
)

// UserSummary is the public slice of a user exposed in enriched listings.
type UserSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

// ImageView is an image enriched with the users who liked it and, when a
// viewer is known, whether that viewer liked it.
type ImageView struct {
	models.Image
	LikedBy       []UserSummary `json:"likedByUsers"`
	IsLikedByUser *bool         `json:"isLikedByUser,omitempty"`
}

// CommentView is a comment enriched with its author's public profile.
type CommentView struct {
	ID        string      `json:"id"`
	ImageID   string      `json:"imageId"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
	User      UserSummary `json:"user"`
}

func newUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
	}
}

// buildImageViews enriches images in their given order. With a non-empty
// viewerID each view also carries the viewer's like flag.
func buildImageViews(ctx context.Context, images []models.Image, viewerID string, likes LikeStore, users UserStore) ([]ImageView, error) {
	imageIDs := make([]string, 0, len(images))
	for _, image := range images {
		imageIDs = append(imageIDs, image.ID)
	}

	allLikes, err := likes.ListByImageIDs(ctx, imageIDs)
	if err != nil {
		return nil, err
	}

	userIDSet := make(map[string]struct{}, len(allLikes))
	for _, like := range allLikes {
		userIDSet[like.UserID] = struct{}{}
	}
	userIDs := make([]string, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}

	likers, err := users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	summaries := make(map[string]UserSummary, len(likers))
	for _, user := range likers {
		summaries[user.ID] = newUserSummary(user)
	}

	likedBy := make(map[string][]UserSummary, len(images))
	viewerLiked := make(map[string]bool)
	for _, like := range allLikes {
		if summary, ok := summaries[like.UserID]; ok {
			likedBy[like.ImageID] = append(likedBy[like.ImageID], summary)
		}
		if viewerID != "" && like.UserID == viewerID {
			viewerLiked[like.ImageID] = true
		}
	}

	views := make([]ImageView, 0, len(images))
	for _, image := range images {
		view := ImageView{
			Image:   image,
			LikedBy: likedBy[image.ID],
		}
		if view.LikedBy == nil {
			view.LikedBy = []UserSummary{}
		}
		if viewerID != "" {
			liked := viewerLiked[image.ID]
			view.IsLikedByUser = &liked
		}
		views = append(views, view)
	}
	return views, nil
}

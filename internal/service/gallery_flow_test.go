package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galleria/api/internal/repository"
	"galleria/api/internal/security"
)

// Full lifecycle over one shared set of stores: an admin registers and
// uploads an image, a federated user logs in and likes it, a repeat like
// conflicts without moving the count, the unlike brings it back to zero,
// and after the admin deletes the image it is gone for everyone.
func TestGalleryLifecycle(t *testing.T) {
	ctx := context.Background()

	admins := newFakeAdminStore()
	users := newFakeUserStore()
	images := newFakeImageStore()
	likes := newFakeLikeStore()
	comments := newFakeCommentStore()
	host := &fakeObjectHost{}
	listCache := newFakeListCache()
	verifier := &fakeVerifier{identity: security.FederatedIdentity{
		Subject: "fb-uid-1",
		Email:   "ada@example.com",
		Name:    "Ada Lovelace",
	}}
	cfg := testAppConfig()

	authSvc := NewAuthService(admins, users, verifier, cfg, zerolog.Nop())
	imageSvc := NewImageService(images, likes, comments, users, host, listCache, zerolog.Nop())
	likeSvc := NewLikeService(likes, images, users, listCache, zerolog.Nop())

	admin, adminToken, err := authSvc.RegisterAdmin(ctx, RegisterAdminInput{
		Email:    "admin@example.com",
		Password: "hunter22",
		Name:     "Site Admin",
	})
	require.NoError(t, err)
	require.NotEmpty(t, adminToken)

	image, err := imageSvc.Upload(ctx, UploadInput{
		AdminID: admin.ID,
		Title:   "Sunset",
		File:    bytes.NewReader(jpegBytes),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunset", image.Title)
	assert.Equal(t, admin.ID, image.UploadedBy)
	assert.Zero(t, image.LikeCount)

	user, userToken, err := authSvc.FederatedLogin(ctx, "raw-id-token")
	require.NoError(t, err)
	require.NotEmpty(t, userToken)

	count, err := likeSvc.Like(ctx, user.ID, image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = likeSvc.Like(ctx, user.ID, image.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyLiked)

	view, err := imageSvc.Get(ctx, image.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.LikeCount)
	require.NotNil(t, view.IsLikedByUser)
	assert.True(t, *view.IsLikedByUser)
	require.Len(t, view.LikedBy, 1)
	assert.Equal(t, user.ID, view.LikedBy[0].ID)

	count, err = likeSvc.Unlike(ctx, user.ID, image.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, imageSvc.Delete(ctx, image.ID))
	assert.Equal(t, []string{image.ObjectKey}, host.removed)

	_, err = imageSvc.Get(ctx, image.ID, "")
	assert.ErrorIs(t, err, repository.ErrImageNotFound)

	liked, err := likeSvc.ListLiked(ctx, user.ID, repository.SortNewest)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

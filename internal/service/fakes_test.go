package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"galleria/api/internal/models"
	"galleria/api/internal/repository"
	"galleria/api/internal/security"
	"galleria/api/internal/storage"
)

// In-memory stores honoring the same sentinel-error contracts as the Mongo
// repositories.

type fakeAdminStore struct {
	admins map[string]models.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[string]models.Admin{}}
}

func (f *fakeAdminStore) Create(_ context.Context, admin models.Admin) error {
	for _, existing := range f.admins {
		if existing.Email == admin.Email {
			return repository.ErrAdminExists
		}
	}
	f.admins[admin.ID] = admin
	return nil
}

func (f *fakeAdminStore) FindByEmail(_ context.Context, email string) (models.Admin, error) {
	for _, admin := range f.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return models.Admin{}, repository.ErrAdminNotFound
}

func (f *fakeAdminStore) GetByID(_ context.Context, id string) (models.Admin, error) {
	admin, ok := f.admins[id]
	if !ok {
		return models.Admin{}, repository.ErrAdminNotFound
	}
	return admin, nil
}

type fakeUserStore struct {
	users map[string]models.User

	// createErr, when set, fails the next Create exactly once. It simulates
	// the unique-index rejection of a concurrent first login.
	createErr error

	// raceWinner, when set, is inserted the moment Create is attempted and
	// the attempt fails with ErrUserExists, as if a concurrent login won.
	raceWinner *models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	if f.raceWinner != nil {
		f.users[f.raceWinner.ID] = *f.raceWinner
		f.raceWinner = nil
		return repository.ErrUserExists
	}
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	for _, existing := range f.users {
		if existing.FirebaseUID != "" && existing.FirebaseUID == user.FirebaseUID {
			return repository.ErrUserExists
		}
		if existing.Email == user.Email {
			return repository.ErrUserExists
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByFirebaseUID(_ context.Context, uid string) (models.User, error) {
	for _, user := range f.users {
		if user.FirebaseUID == uid {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) FindByFederated(_ context.Context, uid, email string) (models.User, error) {
	for _, user := range f.users {
		if user.FirebaseUID == uid || (email != "" && user.Email == email) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

type fakeImageStore struct {
	images map[string]models.Image
	order  []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{images: map[string]models.Image{}}
}

func (f *fakeImageStore) Create(_ context.Context, image models.Image) error {
	f.images[image.ID] = image
	f.order = append(f.order, image.ID)
	return nil
}

func (f *fakeImageStore) GetByID(_ context.Context, id string) (models.Image, error) {
	image, ok := f.images[id]
	if !ok {
		return models.Image{}, repository.ErrImageNotFound
	}
	return image, nil
}

func (f *fakeImageStore) List(_ context.Context, filter repository.ImageFilter) ([]models.Image, error) {
	images := make([]models.Image, 0, len(f.order))
	for _, id := range f.order {
		images = append(images, f.images[id])
	}
	sortImages(images, filter.Sort)
	return images, nil
}

func (f *fakeImageStore) ListByIDs(_ context.Context, ids []string, key repository.SortKey) ([]models.Image, error) {
	images := make([]models.Image, 0, len(ids))
	for _, id := range ids {
		if image, ok := f.images[id]; ok {
			images = append(images, image)
		}
	}
	sortImages(images, key)
	return images, nil
}

func (f *fakeImageStore) Update(_ context.Context, id string, title, description *string) (models.Image, error) {
	image, ok := f.images[id]
	if !ok {
		return models.Image{}, repository.ErrImageNotFound
	}
	if title != nil {
		image.Title = *title
	}
	if description != nil {
		image.Description = *description
	}
	f.images[id] = image
	return image, nil
}

func (f *fakeImageStore) Delete(_ context.Context, id string) error {
	if _, ok := f.images[id]; !ok {
		return repository.ErrImageNotFound
	}
	delete(f.images, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeImageStore) AdjustLikeCount(_ context.Context, id string, delta int64) (int64, error) {
	image, ok := f.images[id]
	if !ok {
		return 0, repository.ErrImageNotFound
	}
	image.LikeCount += delta
	if image.LikeCount < 0 {
		image.LikeCount = 0
	}
	f.images[id] = image
	return image.LikeCount, nil
}

func (f *fakeImageStore) SetLikeCount(_ context.Context, id string, count int64) error {
	image, ok := f.images[id]
	if !ok {
		return repository.ErrImageNotFound
	}
	image.LikeCount = count
	f.images[id] = image
	return nil
}

func (f *fakeImageStore) ListCounts(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(f.images))
	for id, image := range f.images {
		counts[id] = image.LikeCount
	}
	return counts, nil
}

func sortImages(images []models.Image, key repository.SortKey) {
	switch key {
	case repository.SortOldest:
		sort.SliceStable(images, func(i, j int) bool {
			return images[i].UploadedDate.Before(images[j].UploadedDate)
		})
	case repository.SortPopular:
		sort.SliceStable(images, func(i, j int) bool {
			if images[i].LikeCount != images[j].LikeCount {
				return images[i].LikeCount > images[j].LikeCount
			}
			return images[i].UploadedDate.After(images[j].UploadedDate)
		})
	default:
		sort.SliceStable(images, func(i, j int) bool {
			return images[i].UploadedDate.After(images[j].UploadedDate)
		})
	}
}

type fakeLikeStore struct {
	likes map[string]models.Like
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: map[string]models.Like{}}
}

func likeKey(userID, imageID string) string {
	return userID + "|" + imageID
}

func (f *fakeLikeStore) Create(_ context.Context, like models.Like) error {
	key := likeKey(like.UserID, like.ImageID)
	if _, ok := f.likes[key]; ok {
		return repository.ErrAlreadyLiked
	}
	f.likes[key] = like
	return nil
}

func (f *fakeLikeStore) Delete(_ context.Context, userID, imageID string) error {
	key := likeKey(userID, imageID)
	if _, ok := f.likes[key]; !ok {
		return repository.ErrLikeNotFound
	}
	delete(f.likes, key)
	return nil
}

func (f *fakeLikeStore) DeleteByImage(_ context.Context, imageID string) error {
	for key, like := range f.likes {
		if like.ImageID == imageID {
			delete(f.likes, key)
		}
	}
	return nil
}

func (f *fakeLikeStore) ListByImageIDs(_ context.Context, imageIDs []string) ([]models.Like, error) {
	wanted := make(map[string]struct{}, len(imageIDs))
	for _, id := range imageIDs {
		wanted[id] = struct{}{}
	}
	var likes []models.Like
	for _, like := range f.likes {
		if _, ok := wanted[like.ImageID]; ok {
			likes = append(likes, like)
		}
	}
	return likes, nil
}

func (f *fakeLikeStore) ListImageIDsByUser(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for _, like := range f.likes {
		if like.UserID == userID {
			ids = append(ids, like.ImageID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeLikeStore) CountsByImage(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, like := range f.likes {
		counts[like.ImageID]++
	}
	return counts, nil
}

type fakeCommentStore struct {
	comments []models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{}
}

func (f *fakeCommentStore) Create(_ context.Context, comment models.Comment) error {
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeCommentStore) ListByImage(_ context.Context, imageID string) ([]models.Comment, error) {
	var matched []models.Comment
	for _, comment := range f.comments {
		if comment.ImageID == imageID {
			matched = append(matched, comment)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (f *fakeCommentStore) DeleteByImage(_ context.Context, imageID string) error {
	kept := f.comments[:0]
	for _, comment := range f.comments {
		if comment.ImageID != imageID {
			kept = append(kept, comment)
		}
	}
	f.comments = kept
	return nil
}

// fakeListCache mirrors the versioned-key contract of the redis list cache
// and counts calls so tests can assert when the cache is consulted.
type fakeListCache struct {
	version int
	entries map[string][]byte

	keyCalls int
	getCalls int
	setCalls int
	bumps    int
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{entries: map[string][]byte{}}
}

func (f *fakeListCache) Key(_ context.Context, parts ...string) string {
	f.keyCalls++
	return fmt.Sprintf("v%d:%s", f.version, strings.Join(parts, "\x00"))
}

func (f *fakeListCache) Get(_ context.Context, key string, dest any) bool {
	f.getCalls++
	raw, ok := f.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (f *fakeListCache) Set(_ context.Context, key string, value any) {
	f.setCalls++
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	f.entries[key] = raw
}

func (f *fakeListCache) Bump(_ context.Context) {
	f.bumps++
	f.version++
}

type fakeObjectHost struct {
	uploadErr error
	removeErr error

	uploaded []storage.StoredObject
	removed  []string
}

func (f *fakeObjectHost) Upload(_ context.Context, reader io.Reader, size int64, contentType, ext string) (storage.StoredObject, error) {
	if f.uploadErr != nil {
		return storage.StoredObject{}, f.uploadErr
	}
	stored := storage.StoredObject{
		Key:  "objects/test-" + ext,
		URL:  "https://img.example.com/objects/test-" + ext,
		Size: size,
	}
	f.uploaded = append(f.uploaded, stored)
	return stored, nil
}

func (f *fakeObjectHost) Remove(_ context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, key)
	return nil
}

type fakeVerifier struct {
	identity security.FederatedIdentity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (security.FederatedIdentity, error) {
	if f.err != nil {
		return security.FederatedIdentity{}, f.err
	}
	return f.identity, nil
}

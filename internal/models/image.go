package models

import "time"

// Image metadata. The binary lives at the external image host; ObjectKey is
// the host-side identifier needed to delete it. LikeCount is a cached
// aggregate of the likes collection, which stays the source of truth.
type Image struct {
	ID           string    `bson:"_id" json:"id"`
	URL          string    `bson:"url" json:"url"`
	ObjectKey    string    `bson:"objectKey" json:"-"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description" json:"description"`
	UploadedBy   string    `bson:"uploadedBy" json:"uploadedBy"`
	UploadedDate time.Time `bson:"uploadedDate" json:"uploadedDate"`
	LikeCount    int64     `bson:"likeCount" json:"likeCount"`
}

// Like marks that a user liked an image. A unique compound index on
// (user, image) guarantees at most one like per pair.
type Like struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user" json:"userId"`
	ImageID   string    `bson:"image" json:"imageId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Comment on an image. Immutable once created.
type Comment struct {
	ID        string    `bson:"_id" json:"id"`
	ImageID   string    `bson:"image" json:"imageId"`
	UserID    string    `bson:"user" json:"userId"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

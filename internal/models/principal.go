package models

import "time"

// Role names as they appear in token claims. Admins and users are issued
// through separate credential schemes and never share a claim shape.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Admin is a password-authenticated principal allowed to manage images.
type Admin struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Name         string    `bson:"name" json:"name"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// User is a federated-identity principal. The record is created on first
// login and its profile fields are refreshed on every subsequent login.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	FirebaseUID    string    `bson:"firebaseUid" json:"firebaseUid"`
	Email          string    `bson:"email" json:"email"`
	Name           string    `bson:"name" json:"name"`
	ProfilePicture string    `bson:"profilePicture" json:"profilePicture"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// models/user.go
package models

import "time"

// User is a client-app account: the customer who books workers.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PhoneNumber  string    `bson:"phoneNumber" json:"phoneNumber"`
	Address      string    `bson:"address" json:"address,omitempty"`
	ProfileImage string    `bson:"profileImage" json:"profileImage,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	TokenHash    string    `bson:"tokenHash" json:"-"`
	FCMToken     string    `bson:"fcmToken" json:"-"`
	Verified     bool      `bson:"verified" json:"verified"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserRegistrationRequest is the sign-up payload of the client app.
type UserRegistrationRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// UserUpdateRequest carries the mutable profile fields. Nil means unchanged.
type UserUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
}

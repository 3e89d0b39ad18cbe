package models

import "time"

// Worker is a worker-app account: a professional offering one service category.
type Worker struct {
	ID              string     `bson:"id" json:"id"`
	Name            string     `bson:"name" json:"name"`
	Email           string     `bson:"email" json:"email"`
	PhoneNumber     string     `bson:"phoneNumber" json:"phoneNumber"`
	ServiceCategory string     `bson:"serviceCategory" json:"serviceCategory"`
	Skills          []string   `bson:"skills" json:"skills,omitempty"`
	Bio             string     `bson:"bio" json:"bio,omitempty"`
	HourlyRate      float64    `bson:"hourlyRate" json:"hourlyRate"`
	ExperienceYears int        `bson:"experienceYears" json:"experienceYears"`
	City            string     `bson:"city" json:"city"`
	ProfileImage    string     `bson:"profileImage" json:"profileImage,omitempty"`
	Documents       []Document `bson:"documents" json:"documents,omitempty"`
	IsAvailable     bool       `bson:"isAvailable" json:"isAvailable"`
	Verified        bool       `bson:"verified" json:"verified"`
	EmailVerified   bool       `bson:"emailVerified" json:"emailVerified"`
	Rating          float64    `bson:"rating" json:"rating"`
	ReviewCount     int        `bson:"reviewCount" json:"reviewCount"`
	PasswordHash    string     `bson:"passwordHash" json:"-"`
	TokenHash       string     `bson:"tokenHash" json:"-"`
	FCMToken        string     `bson:"fcmToken" json:"-"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Document is an uploaded verification file (ID card, certificate, ...).
type Document struct {
	ID         string    `bson:"id" json:"id"`
	Type       string    `bson:"type" json:"type"`
	URL        string    `bson:"url" json:"url"`
	PublicID   string    `bson:"publicId" json:"-"`
	MimeType   string    `bson:"mimeType" json:"mimeType"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// PublicWorker is what the client app sees when browsing workers.
type PublicWorker struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ServiceCategory string   `json:"serviceCategory"`
	Skills          []string `json:"skills,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	HourlyRate      float64  `json:"hourlyRate"`
	ExperienceYears int      `json:"experienceYears"`
	City            string   `json:"city"`
	ProfileImage    string   `json:"profileImage,omitempty"`
	IsAvailable     bool     `json:"isAvailable"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviewCount"`
}

// Public strips contact details and credentials.
func (w Worker) Public() PublicWorker {
	return PublicWorker{
		ID:              w.ID,
		Name:            w.Name,
		ServiceCategory: w.ServiceCategory,
		Skills:          w.Skills,
		Bio:             w.Bio,
		HourlyRate:      w.HourlyRate,
		ExperienceYears: w.ExperienceYears,
		City:            w.City,
		ProfileImage:    w.ProfileImage,
		IsAvailable:     w.IsAvailable,
		Rating:          w.Rating,
		ReviewCount:     w.ReviewCount,
	}
}

// WorkerRegistrationRequest is the sign-up payload of the worker app.
type WorkerRegistrationRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	PhoneNumber     string   `json:"phoneNumber" binding:"required"`
	Password        string   `json:"password" binding:"required"`
	ServiceCategory string   `json:"serviceCategory" binding:"required"`
	Skills          []string `json:"skills"`
	HourlyRate      float64  `json:"hourlyRate" binding:"required,gt=0"`
	ExperienceYears int      `json:"experienceYears" binding:"gte=0"`
	City            string   `json:"city" binding:"required"`
}

// WorkerUpdateRequest carries the mutable profile fields. Nil means unchanged.
type WorkerUpdateRequest struct {
	Name            *string   `json:"name,omitempty"`
	PhoneNumber     *string   `json:"phoneNumber,omitempty"`
	Skills          *[]string `json:"skills,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	HourlyRate      *float64  `json:"hourlyRate,omitempty"`
	ExperienceYears *int      `json:"experienceYears,omitempty"`
	City            *string   `json:"city,omitempty"`
}

// WorkerSearchCriteria filters the public worker catalog.
type WorkerSearchCriteria struct {
	Category      string
	City          string
	MinRating     float64
	AvailableOnly bool
	Page          int
	Limit         int
}

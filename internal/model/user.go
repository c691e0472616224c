package model

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleGuest = "guest"
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	DisplayName  string             `json:"displayName" bson:"displayName"`
	PasswordHash string             `json:"-" bson:"password"`
	Roles        []string           `json:"roles" bson:"roles"`
}

// UserRef is the populated form of a product's owner.
type UserRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID.Hex(), DisplayName: u.DisplayName}
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

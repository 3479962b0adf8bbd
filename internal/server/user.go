package server

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdrpl/missions"
)

// Model of the users table
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Pass      string    `json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
}

// Create a user with a new ID, a hashed password and CreatedAt set to now.
func CreateUser(name string, email string, pass string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), BCRYPT_COST)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(email),
		Pass:      string(hash),
		CreatedAt: now(),
	}

	return user, nil
}

// Will return true if pass matches the stored hash.
func (u User) CheckPassword(pass string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Pass), []byte(pass)) == nil
}

func (u User) Info() missions.UserInfo {
	return missions.UserInfo{UserID: u.ID, UserName: u.Name}
}

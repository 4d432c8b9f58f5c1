package models

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxActiveSessions caps the number of tokens recorded per user.
// The oldest session is evicted first when a new one is added at capacity.
const MaxActiveSessions = 10

var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password,omitempty" json:"-"`
	Role           Role               `bson:"role" json:"role"`
	RegisterType   RegisterType       `bson:"registerType" json:"registerType"`
	AccVerified    bool               `bson:"accVerified" json:"accVerified"`
	ActiveSessions []string           `bson:"activeSessions" json:"activeSessions"`
	City           string             `bson:"city" json:"city"`
	State          string             `bson:"state" json:"state"`
	PhoneNumber    string             `bson:"phoneNumber" json:"phoneNumber"`
	ProfilePicture string             `bson:"profilePicture" json:"profilePicture"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// AddSession records a new token, evicting the oldest entries while the
// list is at capacity.
func (u *User) AddSession(token string) {
	for len(u.ActiveSessions) >= MaxActiveSessions {
		u.ActiveSessions = u.ActiveSessions[1:]
	}
	u.ActiveSessions = append(u.ActiveSessions, token)
}

// RemoveSession drops every occurrence of token from the session list.
func (u *User) RemoveSession(token string) {
	kept := u.ActiveSessions[:0]
	for _, s := range u.ActiveSessions {
		if s != token {
			kept = append(kept, s)
		}
	}
	u.ActiveSessions = kept
}

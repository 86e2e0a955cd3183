// Package auth implements the account lifecycle: registration, email
// verification, password reset, login, token refresh and logout.
package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Gender enumerates the accepted gender values, stored in canonical
// lowercase form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender normalizes arbitrary input to a canonical Gender.
func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	default:
		return "", false
	}
}

// User is the account record. PasswordHash is write-only from the API's
// perspective and never appears in a response.
type User struct {
	ID           uuid.UUID
	Email        string
	Firstname    string
	Lastname     string
	PasswordHash string
	DateOfBirth  time.Time
	Gender       Gender
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// View is the password-excluded representation returned to clients.
type View struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	IsVerified  bool   `json:"isVerified"`
}

// View returns the client-safe representation of the user.
func (u *User) View() View {
	return View{
		ID:          u.ID.String(),
		Email:       u.Email,
		Firstname:   u.Firstname,
		Lastname:    u.Lastname,
		DateOfBirth: u.DateOfBirth.Format(dateLayout),
		Gender:      string(u.Gender),
		IsVerified:  u.IsVerified,
	}
}

// dateLayout is the wire format for dates of birth.
const dateLayout = "2006-01-02"

var emailFolder = cases.Fold()

// NormalizeEmail canonicalizes an email address for use as the uniqueness
// key: trimmed and Unicode case-folded.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

package domain

import "time"

const (
	RoleOwner  = "owner"
	RoleRenter = "renter"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the public view of an authenticated caller.
type Identity struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  string
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

func (i Identity) Contact() Contact {
	return Contact{Name: i.Name, Email: i.Email, Phone: i.Phone}
}

func IsValidRole(role string) bool {
	return role == RoleOwner || role == RoleRenter
}

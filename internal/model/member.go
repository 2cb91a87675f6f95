package model

import "time"

// Member is a frontend user who can browse the calendar and book
// resources.  Passwords are stored as bcrypt hashes.  This struct
// corresponds to a row in the `members` table.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login email, lower-cased.
//  PasswordHash – bcrypt hash of the password.
//  FirstName    – given name, used for holder display.
//  LastName     – family name, used for holder display.
//  CreatedAt    – timestamp when the member registered.
type Member struct {
	ID           uint64    // members.id
	Email        string    // members.email
	PasswordHash string    // members.password_hash
	FirstName    string    // members.first_name
	LastName     string    // members.last_name
	CreatedAt    time.Time // members.created_at
}

// RedactedName returns the privacy-preserving holder label shown to
// other members, first initial plus last name ("F. Lastname").
func (m Member) RedactedName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	initial := string([]rune(m.FirstName)[0])
	if m.LastName == "" {
		return initial + "."
	}
	return initial + ". " + m.LastName
}

// FullName returns "Firstname Lastname" for holder-visible cells.
func (m Member) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

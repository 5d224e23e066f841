package domain

import "strings"

// RoleCampOwner is granted to accounts provisioned for imported camps.
const RoleCampOwner = "camp_owner"

// Profile holds the personal details attached to an account.
type Profile struct {
	FirstName string
	LastName  string
	Phone     string
}

// ProfileFromDirector splits a director's full name into first and last name.
// Everything after the first word is treated as the last name.
func ProfileFromDirector(director, phone string) Profile {
	fields := strings.Fields(director)
	p := Profile{Phone: strings.TrimSpace(phone)}
	if len(fields) > 0 {
		p.FirstName = fields[0]
		p.LastName = strings.Join(fields[1:], " ")
	}
	return p
}

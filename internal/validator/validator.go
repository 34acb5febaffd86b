package validator

import "regexp"

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

func IsValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72
}

func IsValidRole(role string) bool {
	return role == "ACADEMY" || role == "STUDENT"
}

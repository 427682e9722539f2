// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package config

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy describes the rules applied to user passwords at
// registration, password change and admin bootstrap.
type PasswordPolicy struct {
	MinLength                int
	MaxLength                int
	ForbidAllNumeric         bool
	ForbidCommonPasswords    bool
	ForbidUsernameSimilarity bool
}

// DefaultPasswordPolicy mirrors the usual web-framework validators:
// minimum length, not entirely numeric, not common, not the user's own name.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:                8,
		MaxLength:                128,
		ForbidAllNumeric:         true,
		ForbidCommonPasswords:    true,
		ForbidUsernameSimilarity: true,
	}
}

var commonPasswords = map[string]bool{
	"password": true, "password1": true, "12345678": true, "123456789": true,
	"qwertyui": true, "qwerty123": true, "iloveyou": true, "11111111": true,
	"abc12345": true, "passw0rd": true, "letmein1": true, "welcome1": true,
	"admin123": true, "foodgram": true, "1q2w3e4r": true, "sunshine": true,
}

// Check returns human-readable problems; an empty slice means the password passes.
func (p PasswordPolicy) Check(password, username, email string) []string {
	var problems []string

	n := len([]rune(password))
	if n < p.MinLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", p.MinLength))
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		problems = append(problems, fmt.Sprintf("password must be at most %d characters", p.MaxLength))
	}
	if p.ForbidAllNumeric && n > 0 && isAllDigits(password) {
		problems = append(problems, "password must not be entirely numeric")
	}
	if p.ForbidCommonPasswords && commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "password is too common")
	}
	if p.ForbidUsernameSimilarity && similarToIdentity(password, username, email) {
		problems = append(problems, "password is too similar to the username or email")
	}
	return problems
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func similarToIdentity(password, username, email string) bool {
	pw := strings.ToLower(password)
	candidates := []string{strings.ToLower(username)}
	if local, _, ok := strings.Cut(strings.ToLower(email), "@"); ok {
		candidates = append(candidates, local)
	}
	for _, c := range candidates {
		if len(c) < 3 {
			continue
		}
		if pw == c || strings.Contains(pw, c) || strings.Contains(c, pw) {
			return true
		}
	}
	return false
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("S3cure-pass!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "S3cure-pass!" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if err := CheckPassword(hash, "S3cure-pass!"); err != nil {
		t.Errorf("CheckPassword() correct password error = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if err := CheckPassword("not-a-hash", "S3cure-pass!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() malformed hash error = %v, want ErrInvalidCredentials", err)
	}
}

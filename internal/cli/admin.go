// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/validation"
)

// CreateAdminOptions are the flags of create-admin.
type CreateAdminOptions struct {
	Email     string `validate:"required,email,max=254"`
	Username  string `validate:"required,max=150,username"`
	Password  string `validate:"required"`
	FirstName string `validate:"max=150"`
	LastName  string `validate:"max=150"`
}

// AdminResult is printed after create-admin.
type AdminResult struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Created  bool   `json:"created"`
}

func (r AdminResult) RenderText(w io.Writer) {
	if r.Created {
		fmt.Fprintf(w, "Created admin %s <%s> (id %d)\n", r.Username, r.Email, r.ID)
		return
	}
	fmt.Fprintf(w, "Granted admin role to existing user %s <%s> (id %d); password unchanged\n", r.Username, r.Email, r.ID)
}

// NewCreateAdminCommand creates the create-admin command.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateAdminOptions{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing user",
		Long: `Create an admin account.

When a user with --email already exists it is promoted to admin and its
password is left unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateAdmin(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&opts.Username, "username", "", "admin username (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "admin password (required)")
	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "last name")
	for _, name := range []string{"email", "username", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runCreateAdmin(cmd *cobra.Command, rootOpts *RootOptions, opts *CreateAdminOptions) error {
	out := newFormatter(rootOpts, cmd.OutOrStdout())

	opts.Email = strings.TrimSpace(opts.Email)
	opts.Username = strings.TrimSpace(opts.Username)
	if verr := validation.ValidateStruct(opts); verr != nil {
		return out.Fail(WrapExitError(ExitCommandError, "invalid flags", verr))
	}
	if problems := config.DefaultPasswordPolicy().Check(opts.Password, opts.Username, opts.Email); len(problems) > 0 {
		return out.Fail(WrapExitError(ExitFailure, "password rejected", errors.New(strings.Join(problems, "; "))))
	}

	e, err := openEnv(rootOpts, cmd.ErrOrStderr())
	if err != nil {
		return out.Fail(err)
	}
	defer e.Close()

	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return out.Fail(WrapExitError(ExitFailure, "hash password", err))
	}
	u := &models.User{
		Email:        opts.Email,
		Username:     opts.Username,
		FirstName:    opts.FirstName,
		LastName:     opts.LastName,
		PasswordHash: hash,
	}
	created, err := e.db.EnsureAdmin(cmd.Context(), u)
	if err != nil {
		return out.Fail(WrapExitError(ExitFailure, "create admin", err))
	}
	return out.Success(AdminResult{ID: u.ID, Email: u.Email, Username: u.Username, Created: created})
}

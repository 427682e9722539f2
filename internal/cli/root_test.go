// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "foodgramctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"load-ingredients", "load-tags", "create-admin"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestLoadCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	ing, _, err := cmd.Find([]string{"load-ingredients"})
	require.NoError(t, err)
	assert.Equal(t, "ingredients.csv", ing.Flags().Lookup("file").DefValue)
	assert.NotNil(t, ing.Flags().Lookup("encoding"))
	assert.NotNil(t, ing.Flags().Lookup("force"))

	tags, _, err := cmd.Find([]string{"load-tags"})
	require.NoError(t, err)
	assert.Equal(t, "tags.csv", tags.Flags().Lookup("file").DefValue)
	assert.Nil(t, tags.Flags().Lookup("encoding"), "tags are always utf-8")
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "yaml", "load-tags"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "open", errors.New("boom"))))

	wrapped := WrapExitError(ExitFailure, "create admin", errors.New("conflict"))
	assert.Equal(t, "create admin: conflict", wrapped.Error())
}

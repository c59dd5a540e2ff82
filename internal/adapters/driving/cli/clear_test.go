package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearCmd_Use(t *testing.T) {
	assert.Equal(t, "clear", clearCmd.Use)
}

func TestClearCmd_WithYesFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := &stubStore{}
	vectorStore = store

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"clear", "--yes"})
	defer func() {
		rootCmd.SetArgs(nil)
		clearYes = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, store.cleared)
	assert.Contains(t, buf.String(), "Index cleared")
}

func TestClearCmd_PromptConfirmed(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := &stubStore{}
	vectorStore = store

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("y\n"))
	rootCmd.SetArgs([]string{"clear"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, store.cleared)
}

func TestClearCmd_PromptDeclined(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := &stubStore{}
	vectorStore = store

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("n\n"))
	rootCmd.SetArgs([]string{"clear"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.False(t, store.cleared)
	assert.Contains(t, buf.String(), "Aborted")
}

func TestClearCmd_StoreNotConfigured(t *testing.T) {
	oldStore := vectorStore
	vectorStore = nil
	defer func() {
		vectorStore = oldStore
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"clear", "--yes"})
	defer func() {
		rootCmd.SetArgs(nil)
		clearYes = false
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store not configured")
}

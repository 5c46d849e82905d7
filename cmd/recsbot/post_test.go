package main

import (
	"fmt"
	"testing"

	"github.com/glrecs/recsbot/internal/poster"
	"github.com/glrecs/recsbot/internal/selector"
	"github.com/stretchr/testify/assert"
)

func TestSelectionError(t *testing.T) {
	t.Run("exhausted library exits normally", func(t *testing.T) {
		assert.NoError(t, selectionError(selector.ErrNoUsableFolder))
	})

	t.Run("wrapped exhaustion exits normally", func(t *testing.T) {
		err := fmt.Errorf("try folders: %w", selector.ErrNoUsableFolder)
		assert.NoError(t, selectionError(err))
	})

	t.Run("rate limit fails the command", func(t *testing.T) {
		err := fmt.Errorf("folder %q: %w", "spring set", poster.ErrRateLimited)
		assert.Error(t, selectionError(err))
	})

	t.Run("any other failure fails the command", func(t *testing.T) {
		assert.Error(t, selectionError(fmt.Errorf("list folders: network error")))
	})
}

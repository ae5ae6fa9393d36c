package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTxID(t *testing.T) {
	pattern := regexp.MustCompile(`^TX-[0-9A-Z]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := GenerateTxID()
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	// collisions in 50 draws would be astonishing
	assert.Greater(t, len(seen), 45)
}

func TestGenerateFlwTxRef(t *testing.T) {
	ref := GenerateFlwTxRef()
	assert.Regexp(t, regexp.MustCompile(`^flw_\d{13,}$`), ref)
}

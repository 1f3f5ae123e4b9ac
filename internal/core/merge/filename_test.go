package merge

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeQuery(t *testing.T) {
	assert.Equal(t, "explain_architecture", SanitizeQuery("explain architecture!!"))
	assert.Equal(t, "whats_a_b-tree", SanitizeQuery("what's a b-tree?"))
	assert.Equal(t, "", SanitizeQuery("???"))
}

func TestSanitizeQuery_Truncates(t *testing.T) {
	long := strings.Repeat("a", 80)
	assert.Len(t, SanitizeQuery(long), 50)
}

func TestMergedFilename_Format(t *testing.T) {
	name := MergedFilename("explain architecture!!", 3, 45.67)

	assert.True(t, strings.HasPrefix(name, "merged_explain_architecture_3segments_45.7s_"), name)
	require.Regexp(t, regexp.MustCompile(`^merged_explain_architecture_3segments_45\.7s_[0-9a-f]{8}\.mp4$`), name)
}

func TestMergedFilename_UniqueAcrossCalls(t *testing.T) {
	first := MergedFilename("same query", 1, 10)
	second := MergedFilename("same query", 1, 10)
	assert.NotEqual(t, first, second)
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCommentsValid(t *testing.T) {
	table := DefaultComments()
	require.NoError(t, table.Validate())
	assert.Len(t, table, 10)
}

func TestValidateRejectsBadTables(t *testing.T) {
	missing := DefaultComments()
	delete(missing, 4)
	assert.ErrorContains(t, missing.Validate(), "score 4 has no comments")

	empty := DefaultComments()
	empty[9] = nil
	assert.ErrorContains(t, empty.Validate(), "score 9 has no comments")

	blank := DefaultComments()
	blank[2] = []string{"ok", "  "}
	assert.ErrorContains(t, blank.Validate(), "score 2 comment 2 is empty")

	extra := DefaultComments()
	extra[11] = []string{"too much"}
	assert.ErrorContains(t, extra.Validate(), "score 11 out of range")
}

func TestParseCommentTableOverridesKeys(t *testing.T) {
	table, err := ParseCommentTable(map[string][]string{"10": {"FLAWLESS"}}, DefaultComments())
	require.NoError(t, err)
	assert.Equal(t, []string{"FLAWLESS"}, table[10])
	assert.Equal(t, DefaultComments()[1], table[1])
}

func TestParseCommentTableErrors(t *testing.T) {
	_, err := ParseCommentTable(map[string][]string{"ten": {"x"}}, DefaultComments())
	assert.ErrorContains(t, err, `invalid score key "ten"`)

	_, err = ParseCommentTable(map[string][]string{"0": {"x"}}, DefaultComments())
	assert.ErrorContains(t, err, "out of range")

	_, err = ParseCommentTable(map[string][]string{"5": {}}, DefaultComments())
	assert.ErrorContains(t, err, "score 5 has no comments")
}

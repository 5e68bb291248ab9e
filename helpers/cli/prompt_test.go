package cli

import (
	"strings"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
)

func TestExecReader(t *testing.T) {
	t.Parallel()

	var lines []string
	ExecReader(strings.NewReader("press 1\n\n  turn -2  \nshow"), func(line string) {
		lines = append(lines, line)
	})
	assert.Equal(t, []string{"press 1", "turn -2", "show"}, lines)
}

func TestSuggestPrefix(t *testing.T) {
	t.Parallel()

	all := []prompt.Suggest{{Text: "press"}, {Text: "release"}, {Text: "tick"}, {Text: "tap"}}
	buf := prompt.NewBuffer()
	buf.InsertText("t", false, true)
	got := SuggestPrefix(*buf.Document(), all)
	texts := make([]string, 0, len(got))
	for _, s := range got {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"tick", "tap"}, texts)
}

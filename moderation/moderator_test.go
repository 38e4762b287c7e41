package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newModerator(t *testing.T, words ...string) *Moderator {
	t.Helper()
	m, err := New(words, '*')
	require.NoError(t, err)
	return m
}

func Test_Censor_Masks_Configured_Words(t *testing.T) {
	req := require.New(t)
	m := newModerator(t, "badword", "worse")

	req.Equal("this is a *******", m.Censor("this is a badword"))
	req.Equal("***** and *******", m.Censor("worse and badword"))
	req.Equal("clean message", m.Censor("clean message"))
}

func Test_Censor_Is_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	m := newModerator(t, "badword")

	req.Equal("*******", m.Censor("BadWord"))
	req.Equal("*******", m.Censor("BADWORD"))
}

func Test_Censor_Sees_Through_Punctuation(t *testing.T) {
	req := require.New(t)
	m := newModerator(t, "badword")

	// Spacing and punctuation inside the word do not defeat the match;
	// the original character count is preserved in the output.
	req.Equal("**********", m.Censor("b a.d-word"))
}

func Test_Censor_Without_Words_Is_Pass_Through(t *testing.T) {
	req := require.New(t)
	m := newModerator(t)

	input := "anything at all, badword included"
	req.Equal(input, m.Censor(input))
}

func Test_Censor_Keeps_Surrounding_Text_Intact(t *testing.T) {
	req := require.New(t)
	m := newModerator(t, "mid")

	req.Equal("before *** after", m.Censor("before mid after"))
}

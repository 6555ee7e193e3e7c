package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"war-room/errors"
)

func TestFind_SingleMatch(t *testing.T) {
	req := require.New(t)

	// When searching a word in the middle of the text
	spans := Find("the backstreet boys", "backstreet")

	// Then exactly one span covers it
	req.Len(spans, 1)
	req.Equal(Span{Start: 4, End: 14}, spans[0])
}

func TestFind_AdjacentMatches(t *testing.T) {
	req := require.New(t)

	// Given a pattern occurring back to back
	spans := Find("abcabc", "abc")

	// Then both occurrences are found
	req.Equal([]Span{{Start: 0, End: 3}, {Start: 3, End: 6}}, spans)
}

func TestFind_NonOverlapping(t *testing.T) {
	req := require.New(t)

	// Given a self-overlapping pattern
	spans := Find("aaaa", "aa")

	// Then matches never overlap: offsets 0 and 2, not 0,1,2
	req.Equal([]Span{{Start: 0, End: 2}, {Start: 2, End: 4}}, spans)
}

func TestFind_NoMatch(t *testing.T) {
	req := require.New(t)
	req.Empty(Find("hello world", "badger"))
}

func TestFind_PatternLongerThanText(t *testing.T) {
	req := require.New(t)
	req.Empty(Find("ab", "abc"))
}

func TestFind_MatchAtBothEnds(t *testing.T) {
	req := require.New(t)

	spans := Find("door and door", "door")

	req.Equal([]Span{{Start: 0, End: 4}, {Start: 9, End: 13}}, spans)
}

func TestFind_RepeatedSuffixPattern(t *testing.T) {
	req := require.New(t)

	// Given a pattern whose suffix recurs inside itself, exercising the
	// good-suffix table
	spans := Find("xababaz ababab", "ababab")

	req.Equal([]Span{{Start: 8, End: 14}}, spans)
}

func TestHighlight_WrapsMatches(t *testing.T) {
	req := require.New(t)

	// When highlighting two occurrences
	rendered, count, err := Highlight("say hello and hello again", "hello")

	// Then both are wrapped and counted
	req.NoError(err)
	req.Equal(2, count)
	req.Equal(
		"say "+OpenMark+"hello"+CloseMark+" and "+OpenMark+"hello"+CloseMark+" again",
		rendered,
	)
}

func TestHighlight_NoMatchReturnsTextUnchanged(t *testing.T) {
	req := require.New(t)

	rendered, count, err := Highlight("nothing to see here", "badger")

	req.NoError(err)
	req.Zero(count)
	req.Equal("nothing to see here", rendered)
}

func TestHighlight_EmptyPattern(t *testing.T) {
	req := require.New(t)

	_, _, err := Highlight("whatever", "")

	req.ErrorIs(err, errors.ErrEmptyPattern)
}

func TestHighlight_TranscriptShapedText(t *testing.T) {
	req := require.New(t)

	// Given text in the rendered history form
	text := "<span>alice@mail.io</span><span>2026-08-30 10:00:00</span><p>meet at noon</p>"

	rendered, count, err := Highlight(text, "noon")

	req.NoError(err)
	req.Equal(1, count)
	req.Equal(1, strings.Count(rendered, OpenMark))
	req.Contains(rendered, OpenMark+"noon"+CloseMark)
}

func TestMatcher_Reuse(t *testing.T) {
	req := require.New(t)

	// Given one matcher scanning several texts
	m := NewMatcher("tag")

	req.Len(m.Find("tag, you're it, tag"), 2)
	req.Empty(m.Find("no occurrence"))
	req.Len(m.Find("tag"), 1)
}

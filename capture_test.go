package gitversioning

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapture(t *testing.T) {
	t.Run("Numbered groups", func(t *testing.T) {
		values := Capture(regexp.MustCompile(`(one) (two) (three)`), "one two three")
		require.Equal(t, CaptureMap{
			"0": "one two three",
			"1": "one",
			"2": "two",
			"3": "three",
		}, values)
	})

	t.Run("Nested groups", func(t *testing.T) {
		values := Capture(regexp.MustCompile(`(one) (two (three))`), "one two three")
		require.Equal(t, "one", values["1"])
		require.Equal(t, "two three", values["2"])
		require.Equal(t, "three", values["3"])
	})

	t.Run("Named groups", func(t *testing.T) {
		values := Capture(regexp.MustCompile(`(?<first>one) (?<second>two) (?<third>three)`), "one two three")
		require.Equal(t, "one", values["1"])
		require.Equal(t, "two", values["2"])
		require.Equal(t, "three", values["3"])
		require.Equal(t, "one", values["first"])
		require.Equal(t, "two", values["second"])
		require.Equal(t, "three", values["third"])
	})

	t.Run("Named nested groups", func(t *testing.T) {
		values := Capture(regexp.MustCompile(`(?P<first>one) (?P<second>two (?P<third>three))`), "one two three")
		require.Equal(t, "two three", values["2"])
		require.Equal(t, "three", values["3"])
		require.Equal(t, "two three", values["second"])
		require.Equal(t, "three", values["third"])
	})

	t.Run("Group not taking part", func(t *testing.T) {
		values := Capture(regexp.MustCompile(`v(?<major>\d+)(?:-(?<label>\w+))?`), "v1")
		require.Equal(t, "1", values["major"])
		require.NotContains(t, values, "label")
		require.NotContains(t, values, "2")
	})

	t.Run("No match", func(t *testing.T) {
		require.Empty(t, Capture(regexp.MustCompile(`^main$`), "develop"))
	})

	t.Run("No pattern", func(t *testing.T) {
		require.Empty(t, Capture(nil, "abc"))
	})

	t.Run("Anchored pattern", func(t *testing.T) {
		re, err := CompilePattern(`release/(?<version>.+)`)
		require.NoError(t, err)
		values := Capture(re, "release/1.2")
		require.Equal(t, "release/1.2", values["0"])
		require.Equal(t, "1.2", values["version"])
	})
}

func TestCompilePatternMatchesWholeName(t *testing.T) {
	re, err := CompilePattern(`main|master`)
	require.NoError(t, err)
	require.True(t, re.MatchString("main"))
	require.True(t, re.MatchString("master"))
	require.False(t, re.MatchString("main-fix"))
	require.False(t, re.MatchString("feature/main"))

	_, err = CompilePattern(`(unclosed`)
	require.Error(t, err)
}

package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Equal(t, "Name\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name", &out)
	require.NoError(t, err)
	require.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name", &out)
	require.Error(t, err)
}

func TestGetWithDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetWithDefault(rdr("\n"), "Name", "Alia", &out)
	require.NoError(t, err)
	require.Equal(t, "Alia", got)
	require.Contains(t, out.String(), "Name [Alia]")

	got, err = GetWithDefault(rdr("Kriti\n"), "Name", "Alia", &out)
	require.NoError(t, err)
	require.Equal(t, "Kriti", got)
}

func TestGetList(t *testing.T) {
	var out bytes.Buffer
	got, err := GetList(rdr(" a, ,b ,c\n"), "Tags", &out)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, got)

	got, err = GetList(rdr("\n"), "Tags", &out)
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestConfirm(t *testing.T) {
	for in, want := range map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		"n\n":    false,
		"\n":     false,
		"sure\n": false,
	} {
		var out bytes.Buffer
		got, err := Confirm(rdr(in), "Delete?", &out)
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", in)
	}
}

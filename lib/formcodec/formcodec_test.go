package formcodec

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeRoundTrip(t *testing.T) {
	fields := map[string]string{
		"__RequestVerificationToken": "h2kX/1+=Zq",
		"LogOnDetails.UserName":      "student@example.org",
		"ctl00$plnMain$ddlRCRuns":    "4",
		"odd key &=":                 "a b;c,d'e(f)g*h",
		"empty":                      "",
	}

	body := Encode(fields)

	decoded, err := url.ParseQuery(body)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, decoded, len(fields))
	for key, value := range fields {
		require.Equal(t, value, decoded.Get(key), "key %q", key)
	}
}

func TestEncodeEscapesDelimiters(t *testing.T) {
	body := Encode(map[string]string{
		"k": `:#[]@!$&'()*+,;=`,
	})

	_, value, found := strings.Cut(body, "=")
	require.True(t, found)
	for _, c := range `:#[]@!$&'()*+,;=` {
		require.NotContains(t, value, string(c))
	}
}

func TestEncodeKeepsSlashAndQuestionMark(t *testing.T) {
	body := Encode(map[string]string{"k": "a/b?c"})
	require.Equal(t, "k=a/b?c", body)
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com:8080/path?q=1", true},
		{"ftp://files.example.org", true},
		{"example.com", true},
		{"http://192.168.1.10:8096", true},
		{"http://[::1]:3000", true},
		{"http://localhost:9000", true},
		{"", false},
		{"not a url", false},
		{"just-text", false},
		{"mailto:someone@example.com", false},
		{"javascript://example.com", false},
		{"http://", false},
		{"http://-bad.example.com", false},
		{"http://example..com", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsURL(tc.in), tc.in)
	}
}

func TestServiceLinkValidate(t *testing.T) {
	l := &ServiceLink{Title: "  Jellyfin ", URL: " https://media.example.com "}
	require.NoError(t, l.Validate())
	assert.Equal(t, "Jellyfin", l.Title)
	assert.Equal(t, "https://media.example.com", l.URL)

	err := (&ServiceLink{Title: " ", URL: "https://example.com"}).Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	err = (&ServiceLink{Title: "x", URL: ""}).Validate()
	require.Error(t, err)
	assert.Equal(t, "url is required", err.Error())

	err = (&ServiceLink{Title: "x", URL: "nope"}).Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUserPassword(t *testing.T) {
	u := &User{UserName: "admin"}
	require.NoError(t, u.SetPassword("admin123"))
	assert.NotEqual(t, "admin123", u.Password)
	assert.True(t, u.CheckPassword("admin123"))
	assert.False(t, u.CheckPassword("admin1234"))
	assert.False(t, u.CheckPassword(""))
	require.NoError(t, u.Validate())

	assert.True(t, IsValidation(u.SetPassword("")))
}

func TestUserValidate(t *testing.T) {
	u := &User{UserName: "   "}
	require.NoError(t, u.SetPassword("secret"))
	err := u.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	plain := &User{UserName: "bob", Password: "plaintext"}
	assert.True(t, IsValidation(plain.Validate()))
}

func TestServiceLinkHref(t *testing.T) {
	assert.Equal(t, "http://nas.example.com", ServiceLink{URL: "nas.example.com"}.Href())
	assert.Equal(t, "https://nas.example.com", ServiceLink{URL: "https://nas.example.com"}.Href())
}

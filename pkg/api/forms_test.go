package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homedash/pkg/model"
)

func TestDecodeFormURLEncoded(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=+Plex+&url=plex.example.com&active=on&extra=1"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var f serviceLinkForm
	require.NoError(t, decodeForm(httptest.NewRecorder(), r, &f))
	assert.Equal(t, "Plex", f.Title)
	assert.Equal(t, "plex.example.com", f.URL)
	assert.True(t, f.Active)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=Plex&url=plex.example.com"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	f = serviceLinkForm{}
	require.NoError(t, decodeForm(httptest.NewRecorder(), r, &f))
	assert.False(t, f.Active)
}

func TestDecodeFormMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("userName", " eve "))
	require.NoError(t, mw.WriteField("password", " keep spaces "))
	require.NoError(t, mw.WriteField("active", "on"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	var f userForm
	require.NoError(t, decodeForm(httptest.NewRecorder(), r, &f))
	assert.Equal(t, "eve", f.UserName)
	assert.Equal(t, " keep spaces ", f.Password)
	assert.True(t, f.Active)
	assert.Empty(t, f.model().Password)
}

func TestDecodeFormJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Git","url":"https://git.example.com","active":true}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	var f serviceLinkForm
	require.NoError(t, decodeForm(httptest.NewRecorder(), r, &f))
	assert.Equal(t, "Git", f.Title)
	assert.True(t, f.Active)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	r.Header.Set("Content-Type", "application/json")
	err := decodeForm(httptest.NewRecorder(), r, &f)
	assert.True(t, model.IsValidation(err))
}

func TestListQuery(t *testing.T) {
	for raw, want := range map[string]int{"": 1, "abc": 1, "0": 1, "-2": 1, "3": 3, "2x": 1} {
		page, _ := listQuery(httptest.NewRequest(http.MethodGet, "/?page="+raw+"&search=q", nil))
		assert.Equal(t, want, page, raw)
	}
	_, search := listQuery(httptest.NewRequest(http.MethodGet, "/?search=Media+Server", nil))
	assert.Equal(t, "Media Server", search)
}

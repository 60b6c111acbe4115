package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/gorilla/schema"

	"homedash/pkg/model"
	"homedash/pkg/store"
)

const maxFormBytes = 1 << 20

type loginForm struct {
	Username string `schema:"username" json:"username"`
	Password string `schema:"password" json:"password"`
}

func (f *loginForm) normalize() {
	f.Username = strings.TrimSpace(f.Username)
}

type serviceLinkForm struct {
	Title       string `schema:"title" json:"title"`
	Description string `schema:"description" json:"description"`
	URL         string `schema:"url" json:"url"`
	Active      bool   `schema:"active" json:"active"`
}

func (f *serviceLinkForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.URL = strings.TrimSpace(f.URL)
}

func (f *serviceLinkForm) model() model.ServiceLink {
	return model.ServiceLink{
		Title:       f.Title,
		Description: f.Description,
		URL:         f.URL,
		Active:      f.Active,
	}
}

type userForm struct {
	UserName  string `schema:"userName" json:"userName"`
	FirstName string `schema:"firstName" json:"firstName"`
	LastName  string `schema:"lastName" json:"lastName"`
	Password  string `schema:"password" json:"password"`
	Active    bool   `schema:"active" json:"active"`
}

func (f *userForm) normalize() {
	f.UserName = strings.TrimSpace(f.UserName)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
}

// model never carries the password; it is handed to the store separately.
func (f *userForm) model() model.User {
	return model.User{
		UserName:  f.UserName,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Active:    f.Active,
	}
}

func (f *userForm) update() store.UserUpdate {
	return store.UserUpdate{
		UserName:  f.UserName,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Active:    f.Active,
		Password:  f.Password,
	}
}

type form interface {
	normalize()
}

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	// HTML checkboxes submit "on"
	d.RegisterConverter(false, func(s string) reflect.Value {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "true", "1", "yes":
			return reflect.ValueOf(true)
		default:
			return reflect.ValueOf(false)
		}
	})
	return d
}

var errMalformedBody = &model.ValidationError{Message: "malformed request body"}

// decodeForm fills dst from a urlencoded, multipart or JSON body.
func decodeForm(w http.ResponseWriter, r *http.Request, dst form) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return errMalformedBody
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return errMalformedBody
		}
		if err := formDecoder.Decode(dst, r.PostForm); err != nil {
			return errMalformedBody
		}
	default:
		if err := r.ParseForm(); err != nil {
			return errMalformedBody
		}
		if err := formDecoder.Decode(dst, r.PostForm); err != nil {
			return errMalformedBody
		}
	}
	dst.normalize()
	return nil
}

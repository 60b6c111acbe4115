package model

import (
	"net"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ServiceLink is a titled URL shown on the public dashboard while Active.
type ServiceLink struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:1024" json:"description,omitempty"`
	URL         string    `gorm:"column:url;size:2048;not null" json:"url"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *ServiceLink) Validate() error {
	s.Title = strings.TrimSpace(s.Title)
	s.URL = strings.TrimSpace(s.URL)
	s.Description = strings.TrimSpace(s.Description)
	if s.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if s.URL == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	if !IsURL(s.URL) {
		return &ValidationError{Field: "url", Message: "url is not a valid URL"}
	}
	return nil
}

func (s *ServiceLink) BeforeSave(_ *gorm.DB) error {
	return s.Validate()
}

var allowedSchemes = map[string]bool{"http": true, "https": true, "ftp": true}

// IsURL accepts http, https and ftp URLs whose host is an IP address,
// localhost or a dotted name. A missing scheme is read as http.
func IsURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	candidate := raw
	if !strings.Contains(raw, "://") {
		if strings.Contains(raw, "@") {
			return false
		}
		candidate = "http://" + raw
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	if net.ParseIP(host) != nil || strings.EqualFold(host, "localhost") {
		return true
	}
	if !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			if !(r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r > 127) {
				return false
			}
		}
	}
	return true
}

// Href is URL with an explicit scheme, suitable for an anchor.
func (s ServiceLink) Href() string {
	if s.URL == "" || strings.Contains(s.URL, "://") {
		return s.URL
	}
	return "http://" + s.URL
}

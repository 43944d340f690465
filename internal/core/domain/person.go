package domain

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^(\+7|8)\d{10}$`)
	validate     = validator.New()
)

// joinNonEmpty склеивает непустые части через sep
func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Client - клиент агентства (продавец или покупатель)
type Client struct {
	ID         int64
	LastName   string
	FirstName  string
	Patronymic string
	Phone      string
	Email      string
}

func (c *Client) FullName() string {
	return joinNonEmpty(" ", c.LastName, c.FirstName, c.Patronymic)
}

// NameParts - части ФИО для нечеткого поиска
func (c *Client) NameParts() []string {
	return []string{c.LastName, c.FirstName, c.Patronymic}
}

func (c *Client) Normalize() {
	c.LastName = strings.TrimSpace(c.LastName)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.Patronymic = strings.TrimSpace(c.Patronymic)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
}

func (c *Client) Validate() error {
	verr := NewValidationError()
	if c.Phone == "" && c.Email == "" {
		verr.Add("phone", "either phone or email is required")
		verr.Add("email", "either phone or email is required")
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		verr.Add("phone", "phone must match +7XXXXXXXXXX or 8XXXXXXXXXX")
	}
	if c.Email != "" && validate.Var(c.Email, "email") != nil {
		verr.Add("email", "invalid email address")
	}
	checkMaxLen(verr, "last_name", c.LastName, 50)
	checkMaxLen(verr, "first_name", c.FirstName, 50)
	checkMaxLen(verr, "patronymic", c.Patronymic, 50)
	return verr.OrNil()
}

func checkMaxLen(verr *ValidationError, field, value string, max int) {
	if len([]rune(value)) > max {
		verr.Add(field, "value is too long")
	}
}

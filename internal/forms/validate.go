package forms

import (
	"net/mail"
	"strings"
)

type checker struct {
	err *FlowError
}

func (c *checker) required(field, value string) {
	if c.err == nil && strings.TrimSpace(value) == "" {
		c.err = invalid(StageValidating, field, "is required")
	}
}

func (c *checker) email(field, value string) {
	c.required(field, value)
	if c.err != nil {
		return
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(value))
	if err != nil || addr.Name != "" || !strings.Contains(addr.Address, ".") {
		c.err = invalid(StageValidating, field, "is not a valid email address")
	}
}

func (c *checker) phone(field, value string) {
	c.required(field, value)
	if c.err != nil {
		return
	}
	digits := 0
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(" +-()", r):
		default:
			c.err = invalid(StageValidating, field, "is not a valid phone number")
			return
		}
	}
	if digits < 7 || digits > 15 {
		c.err = invalid(StageValidating, field, "is not a valid phone number")
	}
}

func (c *checker) positive(field string, n int) {
	if c.err == nil && n < 1 {
		c.err = invalid(StageValidating, field, "must be at least 1")
	}
}

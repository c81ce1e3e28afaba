package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/alquileres-api/internal/domain"
)

const dateLayout = "2006-01-02"

// ParseDate acepta "YYYY-MM-DD" (medianoche en loc) o RFC3339.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: fecha vacía", domain.ErrInvalidInput)
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// ParseOptionalDate como ParseDate, pero "" devuelve nil.
func ParseOptionalDate(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// Column widths of the address fields in the master data tables.
const (
	MaxStreetLength     = 35
	MaxCityLength       = 35
	MaxPostalCodeLength = 10
	MaxCountryLength    = 3
)

// Address is a value object representing a postal address of a business partner
// It is immutable - all operations return new Address instances
type Address struct {
	street     string
	city       string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithPostalCode sets the postal code for the address
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = Truncate(strings.TrimSpace(postalCode), MaxPostalCodeLength)
	}
}

// WithStreet sets the street line for the address
func WithStreet(street string) AddressOption {
	return func(a *Address) {
		a.street = Truncate(strings.TrimSpace(street), MaxStreetLength)
	}
}

// NewAddress creates a new Address. City and country are required; the
// country is an ISO 3166 alpha-2 code.
func NewAddress(city, country string, opts ...AddressOption) (Address, error) {
	city = strings.TrimSpace(city)
	country = strings.ToUpper(strings.TrimSpace(country))

	if city == "" {
		return Address{}, errors.New("city cannot be empty")
	}
	if len(country) < 2 || len(country) > MaxCountryLength {
		return Address{}, fmt.Errorf("invalid country code: %q", country)
	}

	addr := Address{
		city:    Truncate(city, MaxCityLength),
		country: country,
	}
	for _, opt := range opts {
		opt(&addr)
	}
	return addr, nil
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country code
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address has no city
func (a Address) IsEmpty() bool {
	return a.city == ""
}

// String returns a single-line representation of the address
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.street, a.postalCode, a.city, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

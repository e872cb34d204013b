package generation

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// TextKind names a kind of fake text
type TextKind string

const (
	TextCompany   TextKind = "company"
	TextStreet    TextKind = "street"
	TextCity      TextKind = "city"
	TextPostcode  TextKind = "postcode"
	TextPhone     TextKind = "phone"
	TextEmail     TextKind = "email"
	TextUserName  TextKind = "userName"
	TextSortKey   TextKind = "sortKey"
	TextSubRange  TextKind = "subRange"
	TextProduct   TextKind = "product"
	TextReference TextKind = "reference"
	TextTime      TextKind = "time"
)

// textProviders maps text kinds to generator functions.
var textProviders = map[TextKind]func(*gofakeit.Faker) string{
	// Partner
	TextCompany:  func(f *gofakeit.Faker) string { return f.Company() },
	TextSortKey:  func(f *gofakeit.Faker) string { return strings.ToUpper(f.Lexify("????")) },
	TextSubRange: func(f *gofakeit.Faker) string { return f.Lexify("???????????") },

	// Address
	TextStreet:   func(f *gofakeit.Faker) string { return f.Street() },
	TextCity:     func(f *gofakeit.Faker) string { return f.City() },
	TextPostcode: func(f *gofakeit.Faker) string { return f.Zip() },

	// Contact
	TextPhone:    func(f *gofakeit.Faker) string { return f.Phone() },
	TextEmail:    func(f *gofakeit.Faker) string { return f.Email() },
	TextUserName: func(f *gofakeit.Faker) string { return f.Username() },

	// Documents
	TextProduct:   func(f *gofakeit.Faker) string { return f.ProductName() },
	TextReference: func(f *gofakeit.Faker) string { return strings.ToUpper(f.Numerify(f.Lexify("???-#######"))) },
	TextTime:      func(f *gofakeit.Faker) string { return f.Date().Format("15:04:05") },
}

// Text returns fake text of the given kind
func (s *Source) Text(kind TextKind) string {
	fn, ok := textProviders[kind]
	if !ok {
		panic(fmt.Sprintf("generation: unknown text kind %q", kind))
	}
	return fn(s.faker)
}

// SupportedTextKinds returns all supported text kinds.
func SupportedTextKinds() []TextKind {
	kinds := make([]TextKind, 0, len(textProviders))
	for k := range textProviders {
		kinds = append(kinds, k)
	}
	return kinds
}

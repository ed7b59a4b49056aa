package profile

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/maps"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

const (
	maxPhoneNumber   = 20
	maxPostcode      = 20
	maxTownOrCity    = 40
	maxStreetAddress = 80
	maxCounty        = 80
)

// Form is the raw delivery information submitted by the user.
type Form struct {
	PhoneNumber    string
	Country        string
	Postcode       string
	TownOrCity     string
	StreetAddress1 string
	StreetAddress2 string
	County         string
}

// FormFromProfile fills a form with the stored values so it can be re-rendered.
func FormFromProfile(p storage.Profile) Form {
	if p == nil {
		return Form{}
	}

	return Form{
		PhoneNumber:    deref(p.PhoneNumber()),
		Country:        deref(p.Country()),
		Postcode:       deref(p.Postcode()),
		TownOrCity:     deref(p.TownOrCity()),
		StreetAddress1: deref(p.StreetAddress1()),
		StreetAddress2: deref(p.StreetAddress2()),
		County:         deref(p.County()),
	}
}

// ValidationError maps a form field to what is wrong with it.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := maps.Keys(e)
	slices.Sort(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, fmt.Sprintf("%s %s", field, e[field]))
	}

	return strings.Join(messages, ", ")
}

// Validate trims every value, turns blank values into unset fields and
// checks lengths and the country code.
func (f Form) Validate(userID int64) (storage.Profile, error) {
	errs := ValidationError{}

	fields := storage.ProfileFields{
		PhoneNumber:    optional(errs, "phone number", f.PhoneNumber, maxPhoneNumber),
		Postcode:       optional(errs, "postcode", f.Postcode, maxPostcode),
		TownOrCity:     optional(errs, "town or city", f.TownOrCity, maxTownOrCity),
		StreetAddress1: optional(errs, "street address 1", f.StreetAddress1, maxStreetAddress),
		StreetAddress2: optional(errs, "street address 2", f.StreetAddress2, maxStreetAddress),
		County:         optional(errs, "county", f.County, maxCounty),
	}

	if country := strings.TrimSpace(f.Country); country != "" {
		code, err := CountryCode(country)
		if err != nil {
			errs["country"] = "is not a valid country"
		} else {
			fields.Country = &code
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return storage.NewProfile(userID, fields), nil
}

func optional(errs ValidationError, field, value string, maxLength int) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if utf8.RuneCountInString(value) > maxLength {
		errs[field] = fmt.Sprintf("must be at most %d characters", maxLength)
		return nil
	}

	return &value
}

// CountryCode normalises an ISO 3166 code (alpha-2, alpha-3 or numeric) to
// its upper-case alpha-2 form.
func CountryCode(code string) (string, error) {
	region, err := language.ParseRegion(code)
	if err != nil {
		return "", err
	}

	if !region.IsCountry() {
		return "", fmt.Errorf("%s is not a country", code)
	}

	return region.String(), nil
}

// CountryName returns the English name of an alpha-2 country code, or the
// code itself when it is unknown.
func CountryName(code string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}

	if name := display.Regions(language.English).Name(region); name != "" {
		return name
	}

	return code
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

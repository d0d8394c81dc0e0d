package domain

import (
	"fmt"
	"regexp"
)

var (
	phoneNumberPattern  = regexp.MustCompile(`^[1-9][0-9]{7,14}$`)
	shortCodePattern    = regexp.MustCompile(`^[1-9][0-9]{2,7}$`)
	alphanumericPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,11}$`)
	containsLetter      = regexp.MustCompile(`[A-Za-z]`)
)

// shortCodeMaxLength is the length below which the factory picks a ShortCode.
const shortCodeMaxLength = 8

// AddressKind names the variant of an Address.
type AddressKind string

const (
	KindPhoneNumber  AddressKind = "phone_number"
	KindShortCode    AddressKind = "short_code"
	KindAlphanumeric AddressKind = "alphanumeric"
)

// Address is an SMS originator or recipient. A nil Address means "not set".
type Address interface {
	String() string
	Kind() AddressKind
}

// PhoneNumber is a mobile number in MSISDN form, e.g. "46701223344" where "46"
// is the country code.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber validates value as an MSISDN without the leading '+'.
func NewPhoneNumber(value string) (PhoneNumber, error) {
	if !phoneNumberPattern.MatchString(value) {
		return PhoneNumber{}, fmt.Errorf("%w: %q is not a valid MSISDN phone number", ErrInvalidAddress, value)
	}
	return PhoneNumber{value: value}, nil
}

func (p PhoneNumber) String() string { return p.value }
func (p PhoneNumber) Kind() AddressKind { return KindPhoneNumber }

// ShortCode is a 3 to 8 digit telephone short code, e.g. "72456".
type ShortCode struct {
	value string
}

// NewShortCode validates value as a short code.
func NewShortCode(value string) (ShortCode, error) {
	if !shortCodePattern.MatchString(value) {
		return ShortCode{}, fmt.Errorf("%w: %q is not a valid short code", ErrInvalidAddress, value)
	}
	return ShortCode{value: value}, nil
}

func (s ShortCode) String() string { return s.value }
func (s ShortCode) Kind() AddressKind { return KindShortCode }

// Alphanumeric is a sender name of 1 to 11 characters of A-Z, a-z or 0-9.
type Alphanumeric struct {
	value string
}

// NewAlphanumeric validates value as an alphanumeric originator.
func NewAlphanumeric(value string) (Alphanumeric, error) {
	if !alphanumericPattern.MatchString(value) {
		return Alphanumeric{}, fmt.Errorf("%w: alphanumeric originator should be 1 - 11 characters of A-Z, a-z or 0-9, got %q", ErrInvalidAddress, value)
	}
	return Alphanumeric{value: value}, nil
}

func (a Alphanumeric) String() string { return a.value }
func (a Alphanumeric) Kind() AddressKind { return KindAlphanumeric }

// NewAddress picks a ShortCode for values shorter than 8 characters and a
// PhoneNumber otherwise.
func NewAddress(raw string) (Address, error) {
	if len(raw) < shortCodeMaxLength {
		shortCode, err := NewShortCode(raw)
		if err != nil {
			return nil, err
		}
		return shortCode, nil
	}
	phoneNumber, err := NewPhoneNumber(raw)
	if err != nil {
		return nil, err
	}
	return phoneNumber, nil
}

// NewAddressAllowingAlphanumeric behaves like NewAddress, except that a value
// containing any letter becomes an Alphanumeric.
func NewAddressAllowingAlphanumeric(raw string) (Address, error) {
	if containsLetter.MatchString(raw) {
		alphanumeric, err := NewAlphanumeric(raw)
		if err != nil {
			return nil, err
		}
		return alphanumeric, nil
	}
	return NewAddress(raw)
}

// AddressString returns the address value, or "" for a nil Address.
func AddressString(a Address) string {
	if a == nil {
		return ""
	}
	return a.String()
}

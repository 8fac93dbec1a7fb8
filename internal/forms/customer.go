package forms

import (
	"regexp"
	"strings"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldAddress = "address"
	FieldPrice   = "price"
)

type CustomerForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (f CustomerForm) Validate() Errors {
	errs := Errors{}

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		errs.Add(FieldName, "Name is required")
	case len([]rune(name)) < 2:
		errs.Add(FieldName, "Name must be at least 2 characters")
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs.Add(FieldEmail, "Email is required")
	case !emailPattern.MatchString(f.Email):
		errs.Add(FieldEmail, "Please enter a valid email address")
	}

	switch {
	case strings.TrimSpace(f.Phone) == "":
		errs.Add(FieldPhone, "Phone is required")
	case !phonePattern.MatchString(f.Phone):
		errs.Add(FieldPhone, "Please enter a valid phone number")
	}

	address := strings.TrimSpace(f.Address)
	switch {
	case address == "":
		errs.Add(FieldAddress, "Address is required")
	case len([]rune(address)) < 5:
		errs.Add(FieldAddress, "Address must be at least 5 characters")
	}

	return errs
}

// Input validates the form and returns the trimmed customer fields.
func (f CustomerForm) Input() (domain.CustomerInput, error) {
	if err := f.Validate().Err(); err != nil {
		return domain.CustomerInput{}, err
	}
	return domain.CustomerInput{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Address: strings.TrimSpace(f.Address),
	}, nil
}

func CustomerFormFrom(c domain.Customer) CustomerForm {
	return CustomerForm{Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address}
}

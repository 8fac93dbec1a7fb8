package forms

import (
	"errors"
	"strings"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

const MaxPrice domain.Money = 99999999

// ItemForm keeps the price as typed so it can be parsed exactly.
type ItemForm struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

func (f ItemForm) Validate() Errors {
	errs := Errors{}

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		errs.Add(FieldName, "Item name is required")
	case len([]rune(name)) < 2:
		errs.Add(FieldName, "Item name must be at least 2 characters")
	}

	if _, reason := parsePrice(f.Price); reason != "" {
		errs.Add(FieldPrice, reason)
	}

	return errs
}

func (f ItemForm) Input() (domain.ItemInput, error) {
	if err := f.Validate().Err(); err != nil {
		return domain.ItemInput{}, err
	}
	price, _ := parsePrice(f.Price)
	return domain.ItemInput{Name: strings.TrimSpace(f.Name), Price: price}, nil
}

func ItemFormFrom(item domain.Item) ItemForm {
	return ItemForm{Name: item.Name, Price: item.Price.String()}
}

func parsePrice(raw string) (domain.Money, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "Price is required"
	}

	price, err := domain.ParseMoney(raw)
	switch {
	case errors.Is(err, domain.ErrTooManyDecimal):
		return 0, "Price cannot have more than 2 decimal places"
	case errors.Is(err, domain.ErrOutOfRange):
		return 0, "Price cannot exceed $999,999.99"
	case err != nil:
		return 0, "Price must be a valid number"
	case price <= 0:
		return 0, "Price must be greater than 0"
	case price > MaxPrice:
		return 0, "Price cannot exceed $999,999.99"
	}
	return price, ""
}

// Package schemas declares the shapes of request bodies and query strings and
// validates them with go-playground/validator.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/models"
	"go-ecommerce-api/store"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	// Prices are stored as decimal(10,2); anything finer would be rounded away.
	_ = v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Float64 {
			return false
		}
		d := decimal.NewFromFloat(fl.Field().Float())
		return d.Round(2).Equal(d)
	})
	return v
}

// Decode reads a JSON body into dst and validates it.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body", map[string]string{"body": err.Error()}).WithCause(err)
	}
	return Validate(dst)
}

// Validate checks v against its validate tags. Field errors are keyed by
// their JSON name.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Internal(apperrors.InternalException, err)
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fieldPath(fe)] = describe(fe)
	}
	return apperrors.Validation("Unprocessable entity", details).WithCause(err)
}

// fieldPath drops the struct name from the namespace: "SignupRequest.email" -> "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s long", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s long", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "cents":
		return "must have at most 2 decimal places"
	case "excludesall":
		if fe.Param() == "," || fe.Param() == "0x2C" {
			return "must not contain a comma"
		}
		return fmt.Sprintf("must not contain any of %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// ParsePage reads skip and take from a query string. Missing, malformed or
// negative values fall back to 0 and 5; take=0 also means 5.
func ParsePage(q url.Values) store.Page {
	return store.Page{
		Skip: intOr(q.Get("skip"), 0),
		Take: intOr(q.Get("take"), 5),
	}
}

func intOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || (n == 0 && fallback != 0) {
		return fallback
	}
	return n
}

// ParseStatus reads the optional status filter of an order listing.
func ParseStatus(q url.Values) (models.OrderStatus, error) {
	raw := q.Get("status")
	if raw == "" {
		return "", nil
	}
	status := models.OrderStatus(strings.ToUpper(raw))
	if !status.Valid() {
		return "", apperrors.Validation("Unprocessable entity", map[string]string{
			"status": fmt.Sprintf("must be one of %v", models.OrderStatuses),
		})
	}
	return status, nil
}

// OrderFilter combines ParsePage and ParseStatus.
func OrderFilter(q url.Values) (store.OrderFilter, error) {
	status, err := ParseStatus(q)
	if err != nil {
		return store.OrderFilter{}, err
	}
	return store.OrderFilter{Status: status, Page: ParsePage(q)}, nil
}

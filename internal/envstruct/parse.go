package envstruct

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
	ErrParse        = errors.New("cannot parse environment variable")
)

// Populate fills the `env` tagged fields of the struct v points to.
//
// lookupEnv has the signature of [os.LookupEnv]. A field tagged `env:"NAME"` gets the value of NAME, or the
// value of its `envDefault:"value"` tag when NAME is not set. Without either ErrEnvNotSet is reported.
// Supported field kinds are string, bool, int and float64. All problems are reported together.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr || ptrRef.IsNil() {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	var errs []error
	refType := ref.Type()
	for i := range refType.NumField() {
		field := refType.Field(i)
		name, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}
		value := ref.Field(i)
		if !value.CanSet() {
			errs = append(errs, fmt.Errorf("%w: cannot set field: %s", ErrInvalidValue, field.Name))
			continue
		}

		raw, err := lookupWithDefault(name, field.Tag, lookupEnv)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err = assign(value, raw); err != nil {
			errs = append(errs, fmt.Errorf("field %s, env %s: %w", field.Name, name, err))
		}
	}

	return errors.Join(errs...)
}

func assign(value reflect.Value, raw string) error {
	switch value.Kind() { //nolint:exhaustive // the remaining kinds are rejected below.
	case reflect.String:
		value.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}
		value.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}
		value.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}
		value.SetFloat(f)
	default:
		return fmt.Errorf("%w: unsupported kind %s", ErrInvalidValue, value.Kind())
	}
	return nil
}

func lookupWithDefault(name string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	if v, ok := lookupEnv(name); ok {
		return v, nil
	}
	if v, ok := tag.Lookup("envDefault"); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrEnvNotSet, name)
}

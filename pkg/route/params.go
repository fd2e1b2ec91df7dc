package route

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Params maps parameter names to their decoded values.
type Params map[string]string

// Get returns the value for name, or "".
func (p Params) Get(name string) string { return p[name] }

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParamParser converts between Params and structs whose fields carry
// `param:"name"` tags.
type ParamParser struct{}

// NewParamParser creates a new parameter parser.
func NewParamParser() *ParamParser {
	return &ParamParser{}
}

// Parse populates a struct with values from the params map.
// The target must be a pointer to a struct with `param` tags.
func (p *ParamParser) Parse(params Params, target any) error {
	v, err := structValue(target)
	if err != nil {
		return err
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		paramName := t.Field(i).Tag.Get("param")
		if paramName == "" {
			continue
		}
		value, ok := params[paramName]
		if !ok {
			continue
		}
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if err := setField(field, value); err != nil {
			return fmt.Errorf("parsing param %q: %w", paramName, err)
		}
	}
	return nil
}

// Format is the inverse of Parse: it reads every tagged field of the
// struct (or pointer to struct) src into Params.
func (p *ParamParser) Format(src any) (Params, error) {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("source must be a struct, got %s", v.Kind())
	}

	out := make(Params)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		paramName := t.Field(i).Tag.Get("param")
		if paramName == "" {
			continue
		}
		s, err := formatField(v.Field(i))
		if err != nil {
			return nil, fmt.Errorf("formatting param %q: %w", paramName, err)
		}
		out[paramName] = s
	}
	return out, nil
}

// tagNames returns the `param` tag names declared by struct type t.
func tagNames(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("param"); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func structValue(target any) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, fmt.Errorf("target is nil")
	}
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return reflect.Value{}, fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}
	return v, nil
}

// setField sets a field value from a string.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		// Catch-all values: "a/b/c" -> ["a", "b", "c"]
		var parts []string
		if value != "" {
			parts = strings.Split(value, "/")
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}
	return nil
}

func formatField(field reflect.Value) (string, error) {
	switch field.Kind() {
	case reflect.String:
		return field.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(field.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(field.Float(), 'g', -1, field.Type().Bits()), nil
	case reflect.Bool:
		return strconv.FormatBool(field.Bool()), nil
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return "", fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		return strings.Join(field.Interface().([]string), "/"), nil
	default:
		return "", fmt.Errorf("unsupported type: %s", field.Kind())
	}
}

// uuidRegex matches valid UUIDs.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ValidateParam validates a parameter value against the type declared in
// its pattern segment. Unknown types accept any value.
func ValidateParam(value, paramType string) error {
	switch paramType {
	case "int", "int64", "int32", "int16", "int8":
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
	case "uint", "uint64", "uint32", "uint16", "uint8":
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
	case "uuid":
		if !uuidRegex.MatchString(value) {
			return fmt.Errorf("invalid UUID: %s", value)
		}
	}
	return nil
}

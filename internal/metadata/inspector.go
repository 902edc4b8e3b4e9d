package metadata

import (
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"bankreco/internal/core/i18n"
)

// Inspect derives an EntityDefinition from a struct. Field names come
// from `json` tags, types are guessed from Go kinds and field names, and
// an optional `entity` tag overrides the guess:
//
//	Bank int `json:"bank" entity:"type=Lookup,lookup=Bank,required,tab=1,order=3"`
//
// Recognized options: type, lookup, tab, order, label, required,
// disabled, nolist, nocard. `entity:"-"` skips the field.
func Inspect(entity any, name, apiURI string) EntityDefinition {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name == "" {
		name = t.Name()
	}

	def := EntityDefinition{
		Name:      name,
		APIURI:    apiURI,
		TitleList: i18n.Text{FR: name, EN: name},
		TitleForm: i18n.Text{FR: name, EN: name},
		Fields:    make([]EntityField, 0, t.NumField()),
	}

	inspectStruct(t, &def)
	return def
}

func inspectStruct(t reflect.Type, def *EntityDefinition) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.PkgPath != "" { // unexported
			continue
		}

		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				inspectStruct(ft, def)
				continue
			}
		}

		name := jsonName(field)
		if name == "-" || field.Tag.Get("entity") == "-" {
			continue
		}

		f := EntityField{
			Field: name,
			Label: i18n.Text{FR: guessLabel(field.Name), EN: guessLabel(field.Name)},
			Type:  guessFieldType(field),
			Order: len(def.Fields) + 1,
		}
		applyEntityTag(&f, field.Tag.Get("entity"))
		def.Fields = append(def.Fields, f)
	}
}

func guessFieldType(field reflect.StructField) FieldType {
	t := field.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == reflect.TypeOf(time.Time{}) {
		return TypeDate
	}
	if t.Name() == "Decimal" && t.PkgPath() == "github.com/shopspring/decimal" {
		return TypeNumber
	}

	switch t.Kind() {
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.String:
		return guessStringType(field.Name)
	default:
		return TypeString
	}
}

func guessStringType(name string) FieldType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "email"):
		return TypeEmail
	case strings.Contains(lower, "phone"), strings.Contains(lower, "fax"):
		return TypePhone
	case strings.Contains(lower, "url"), strings.Contains(lower, "website"):
		return TypeURL
	case strings.Contains(lower, "logo"), strings.Contains(lower, "image"), strings.Contains(lower, "photo"):
		return TypeImage
	case strings.Contains(lower, "address"), strings.Contains(lower, "description"), strings.Contains(lower, "comment"):
		return TypeTextarea
	default:
		return TypeString
	}
}

func applyEntityTag(f *EntityField, tag string) {
	if tag == "" {
		return
	}
	for _, opt := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "type":
			f.Type = FieldType(value)
		case "lookup":
			f.LookupEntity = value
			if f.Type != TypeLookup && value != "" {
				f.Type = TypeLookup
			}
		case "tab":
			if n, err := strconv.Atoi(value); err == nil {
				f.Tab = n
			}
		case "order":
			if n, err := strconv.Atoi(value); err == nil {
				f.Order = n
			}
		case "label":
			f.Label = i18n.Text{FR: value, EN: value}
		case "required":
			f.Required = true
		case "disabled":
			f.Disabled = true
		case "nolist":
			no := false
			f.ShowList = &no
		case "nocard":
			no := false
			f.ShowCard = &no
		}
	}
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	runes := []rune(field.Name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// guessLabel splits a Go identifier into words: "TaxID" -> "Tax ID".
func guessLabel(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

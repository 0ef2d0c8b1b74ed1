// Package serializer maps stored records to API representations and
// validates inbound bodies back into records.
package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Field error messages, worded the way API clients already parse them.
const (
	msgRequired        = "This field is required."
	msgNull            = "This field may not be null."
	msgBlank           = "This field may not be blank."
	msgInvalidString   = "Not a valid string."
	msgInvalidInteger  = "A valid integer is required."
	msgInvalidUUID     = "Must be a valid UUID."
	msgInvalidURL      = "Enter a valid URL."
	msgInvalidDateTime = "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]."
	msgInvalidYAML     = "Invalid YAML format."
	msgNotAList        = `Expected a list of items but got type "%s".`
	msgNotADict        = `Expected a dictionary of items but got type "%s".`
	msgDoesNotExist    = `Invalid pk "%s" - object does not exist.`
	msgIncorrectPKType = "Incorrect type. Expected pk value, received %s."
)

// Value is one raw field of an inbound JSON body. The zero value means the
// key was absent; a JSON null is present but null.
type Value struct {
	raw     json.RawMessage
	present bool
}

// UnmarshalJSON keeps the raw bytes so parse errors become field errors
// instead of failing the whole body.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.present = true
	v.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Present reports whether the key was sent
func (v Value) Present() bool {
	return v.present
}

// IsNull reports whether the key was sent as JSON null
func (v Value) IsNull() bool {
	return v.present && bytes.Equal(bytes.TrimSpace(v.raw), []byte("null"))
}

// ValidationErrors collects field errors keyed by field name
type ValidationErrors map[string][]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message to a field
func (e ValidationErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether field already failed
func (e ValidationErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err returns nil when nothing failed
func (e ValidationErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// DateTime renders timestamps as UTC with microsecond precision
type DateTime time.Time

const (
	dateTimeLayout       = "2006-01-02T15:04:05.000000Z07:00"
	dateTimeSecondLayout = "2006-01-02T15:04:05Z07:00"
)

// MarshalJSON writes six fractional digits, or none on a whole second
func (d DateTime) MarshalJSON() ([]byte, error) {
	t := time.Time(d).UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return json.Marshal(t.Format(dateTimeSecondLayout))
	}
	return json.Marshal(t.Format(dateTimeLayout))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := parseDateTime(s)
	if err != nil {
		return err
	}
	*d = DateTime(t)
	return nil
}

// NewDateTime returns nil for a nil time
func NewDateTime(t *time.Time) *DateTime {
	if t == nil {
		return nil
	}
	d := DateTime(*t)
	return &d
}

var dateTimeInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02T15:04-07",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

// parseDateTime accepts ISO 8601 variants; naive values are taken as UTC
func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// field describes how one inbound key is validated
type field struct {
	name       string
	required   bool
	allowNull  bool
	allowBlank bool
}

// check reports whether v carries a value worth parsing, recording
// missing and null errors along the way.
func (f field) check(v Value, errs ValidationErrors) bool {
	if !v.present {
		if f.required {
			errs.Add(f.name, msgRequired)
		}
		return false
	}
	if v.IsNull() {
		if !f.allowNull {
			errs.Add(f.name, msgNull)
		}
		return false
	}
	return true
}

func (f field) str(v Value, errs ValidationErrors) (string, bool) {
	if !f.check(v, errs) {
		return "", false
	}

	var decoded interface{}
	if err := json.Unmarshal(v.raw, &decoded); err != nil {
		errs.Add(f.name, msgInvalidString)
		return "", false
	}

	var s string
	switch value := decoded.(type) {
	case string:
		s = value
	case float64:
		s = strings.TrimSpace(string(v.raw))
	default:
		errs.Add(f.name, msgInvalidString)
		return "", false
	}

	s = strings.TrimSpace(s)
	if s == "" && !f.allowBlank {
		errs.Add(f.name, msgBlank)
		return "", false
	}
	return s, true
}

func (f field) integer(v Value, errs ValidationErrors) (int64, bool) {
	if !f.check(v, errs) {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(v.raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(v.raw, &s); err != nil {
			errs.Add(f.name, msgInvalidInteger)
			return 0, false
		}
		n = json.Number(strings.TrimSpace(s))
	}

	i, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		// 3.0 is an integer, 3.5 is not
		fl, ferr := n.Float64()
		if ferr != nil || fl != float64(int64(fl)) {
			errs.Add(f.name, msgInvalidInteger)
			return 0, false
		}
		i = int64(fl)
	}
	return i, true
}

func (f field) uuid(v Value, errs ValidationErrors) (string, bool) {
	if !f.check(v, errs) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		errs.Add(f.name, msgInvalidUUID)
		return "", false
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		errs.Add(f.name, msgInvalidUUID)
		return "", false
	}
	return id.String(), true
}

// nullableUUID returns nil for an absent or null value
func (f field) nullableUUID(v Value, errs ValidationErrors) *string {
	id, ok := f.uuid(v, errs)
	if !ok {
		return nil
	}
	return &id
}

func (f field) datetime(v Value, errs ValidationErrors) (time.Time, bool) {
	if !f.check(v, errs) {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		errs.Add(f.name, msgInvalidDateTime)
		return time.Time{}, false
	}
	t, err := parseDateTime(s)
	if err != nil {
		errs.Add(f.name, msgInvalidDateTime)
		return time.Time{}, false
	}
	return t, true
}

func (f field) nullableDatetime(v Value, errs ValidationErrors) *time.Time {
	t, ok := f.datetime(v, errs)
	if !ok {
		return nil
	}
	return &t
}

var urlSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}

func (f field) url(v Value, errs ValidationErrors) (string, bool) {
	s, ok := f.str(v, errs)
	if !ok {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || !urlSchemes[strings.ToLower(u.Scheme)] || !validHost(u.Hostname()) || strings.ContainsAny(s, " \t\n") {
		errs.Add(f.name, msgInvalidURL)
		return "", false
	}
	return s, true
}

// validHost accepts localhost, an IP literal or a dotted domain name
// ending in an alphabetic or punycode top-level label.
func validHost(host string) bool {
	if host == "" {
		return false
	}
	if strings.EqualFold(host, "localhost") || net.ParseIP(host) != nil {
		return true
	}

	labels := strings.Split(strings.TrimSuffix(host, "."), ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return false
			}
		}
	}

	tld := strings.ToLower(labels[len(labels)-1])
	if strings.HasPrefix(tld, "xn--") {
		return len(tld) > 4
	}
	if len([]rune(tld)) < 2 {
		return false
	}
	for _, r := range tld {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func (f field) dict(v Value, errs ValidationErrors) (map[string]interface{}, bool) {
	if !f.check(v, errs) {
		return nil, false
	}
	var decoded interface{}
	if err := json.Unmarshal(v.raw, &decoded); err != nil {
		errs.Add(f.name, fmt.Sprintf(msgNotADict, "str"))
		return nil, false
	}
	m, ok := decoded.(map[string]interface{})
	if !ok {
		errs.Add(f.name, fmt.Sprintf(msgNotADict, jsonTypeName(decoded)))
		return nil, false
	}
	return m, true
}

// PKExists reports whether a related integer primary key exists
type PKExists func(ctx context.Context, id int64) (bool, error)

// relatedPK validates a primary key reference. A lookup failure is returned
// as an error rather than a field error.
func (f field) relatedPK(ctx context.Context, v Value, errs ValidationErrors, exists PKExists) (*int64, error) {
	if !f.check(v, errs) {
		return nil, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(v.raw, &decoded); err != nil {
		errs.Add(f.name, fmt.Sprintf(msgIncorrectPKType, "str"))
		return nil, nil
	}
	switch decoded.(type) {
	case float64, string:
	default:
		errs.Add(f.name, fmt.Sprintf(msgIncorrectPKType, jsonTypeName(decoded)))
		return nil, nil
	}

	id, ok := f.integer(v, ValidationErrors{})
	if !ok {
		errs.Add(f.name, fmt.Sprintf(msgIncorrectPKType, jsonTypeName(decoded)))
		return nil, nil
	}

	found, err := exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", f.name, err)
	}
	if !found {
		errs.Add(f.name, fmt.Sprintf(msgDoesNotExist, strconv.FormatInt(id, 10)))
		return nil, nil
	}
	return &id, nil
}

// UUIDsMissing returns the ids in the list that do not exist
type UUIDsMissing func(ctx context.Context, ids []string) ([]string, error)

func (f field) relatedUUIDs(ctx context.Context, v Value, errs ValidationErrors, missing UUIDsMissing) ([]string, error) {
	if !f.check(v, errs) {
		return []string{}, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(v.raw, &decoded); err != nil {
		errs.Add(f.name, fmt.Sprintf(msgNotAList, "str"))
		return nil, nil
	}
	items, ok := decoded.([]interface{})
	if !ok {
		errs.Add(f.name, fmt.Sprintf(msgNotAList, jsonTypeName(decoded)))
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			errs.Add(f.name, fmt.Sprintf(msgIncorrectPKType, jsonTypeName(item)))
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			errs.Add(f.name, fmt.Sprintf(msgDoesNotExist, s))
			continue
		}
		if !seen[id.String()] {
			seen[id.String()] = true
			ids = append(ids, id.String())
		}
	}
	if errs.Has(f.name) || len(ids) == 0 {
		return ids, nil
	}

	absent, err := missing(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", f.name, err)
	}
	for _, id := range absent {
		errs.Add(f.name, fmt.Sprintf(msgDoesNotExist, id))
	}
	return ids, nil
}

// jsonTypeName names a decoded JSON value the way error messages expect
func jsonTypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case float64:
		return "int"
	case string:
		return "str"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}

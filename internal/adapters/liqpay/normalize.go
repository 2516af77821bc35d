package liqpay

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kevin07696/liqpay-client/internal/domain"
	"github.com/kevin07696/liqpay-client/pkg/timeutil"
)

// DateTimeFormat is the gateway's datetime wire format, always UTC
const DateTimeFormat = "2006-01-02 15:04:05"

var phonePattern = regexp.MustCompile(`^\+?380\d{9}$`)

// Normalizer validates a caller-supplied parameter set against an
// ActionSpec and canonicalizes every field. The output contains only
// string and json.Number values, ready for the codec.
//
// The clock is injected so that relative-date anchoring is deterministic
// under test. Aside from reading it, normalization has no side effects.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a normalizer anchored on UTC wall-clock time
func NewNormalizer() *Normalizer {
	return &Normalizer{now: timeutil.Now}
}

// NewNormalizerAt creates a normalizer with an injected clock
func NewNormalizerAt(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize validates raw parameters against the action's spec and returns
// the canonical parameter set. Fields not declared for the action are
// rejected: silently passing unrecognized fields through a signed-request
// protocol would sign content the caller never validated.
func (n *Normalizer) Normalize(action domain.Action, raw map[string]interface{}) (domain.Params, error) {
	spec, err := domain.SpecFor(action)
	if err != nil {
		return nil, err
	}

	// A nil value counts as absent, never as satisfied
	for field := range spec.Required {
		if value, ok := raw[field]; !ok || value == nil {
			return nil, domain.NewValidationError(field, fmt.Sprintf("required for action %q", action))
		}
	}

	params := make(domain.Params, len(raw)+4)
	for field, value := range raw {
		if value == nil {
			continue
		}
		rule, ok := spec.Declared(field)
		if !ok {
			return nil, domain.NewValidationError(field, fmt.Sprintf("unexpected field for action %q", action))
		}
		canonical, err := n.coerce(rule, field, value)
		if err != nil {
			return nil, err
		}
		params[field] = canonical
	}

	if err := n.applyActionRules(action, params); err != nil {
		return nil, err
	}
	return params, nil
}

// applyActionRules enforces cross-field constraints and fills
// action-implied values after per-field coercion.
func (n *Normalizer) applyActionRules(action domain.Action, params domain.Params) error {
	switch action {
	case domain.ActionSubscribe:
		params["subscribe"] = json.Number("1")
		if _, ok := params["subscribe_date_start"]; !ok {
			params["subscribe_date_start"] = n.now().UTC().Format(DateTimeFormat)
		}

	case domain.ActionReports:
		from, okFrom := params.Int64("date_from")
		to, okTo := params.Int64("date_to")
		if okFrom && okTo && from >= to {
			return domain.NewValidationError("date_from", "must be earlier than date_to")
		}
	}
	return nil
}

func (n *Normalizer) coerce(rule domain.FieldRule, field string, value interface{}) (interface{}, error) {
	switch rule {
	case domain.RuleAmount:
		return coerceAmount(field, value)
	case domain.RuleCurrency:
		return coerceEnum(field, value, "USD", "EUR", "UAH")
	case domain.RuleOrderID:
		return coerceOrderID(field, value)
	case domain.RuleDescription:
		return coerceBoundedString(field, value, 2048)
	case domain.RuleCardNumber:
		return coerceDigits(field, value, 16)
	case domain.RuleCardCVV:
		return coerceDigits(field, value, 3)
	case domain.RuleCardMonth:
		return coerceCardMonth(field, value)
	case domain.RuleCardYear:
		return coerceCardYear(field, value)
	case domain.RulePhone:
		return coercePhone(field, value)
	case domain.RuleLanguage:
		return coerceEnum(field, value, "uk", "en")
	case domain.RuleURL:
		return coerceURL(field, value)
	case domain.RuleEmail:
		return coerceEmail(field, value)
	case domain.RuleString:
		return coerceBoundedString(field, value, 0)
	case domain.RuleInt:
		return coerceInt(field, value)
	case domain.RuleDateEdge:
		return n.coerceDateEdge(field, value)
	case domain.RuleDateTime:
		return n.coerceDateTime(field, value)
	case domain.RuleRespFormat:
		return coerceEnum(field, value, "json", "csv", "xml")
	case domain.RulePeriodicity:
		return coerceEnum(field, value, "month", "year")
	default:
		return nil, domain.NewValidationError(field, "no validator registered")
	}
}

// coerceAmount accepts decimals, numeric strings and native numbers and
// canonicalizes to a positive JSON number with at most 4 decimal places.
func coerceAmount(field string, value interface{}) (interface{}, error) {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return nil, domain.NewValidationError(field, "must be a decimal number")
		}
		d = parsed
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, domain.NewValidationError(field, "must be a decimal number")
		}
		d = parsed
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		return nil, domain.NewValidationError(field, "must be a decimal number")
	}

	if !d.IsPositive() {
		return nil, domain.NewValidationError(field, "must be positive")
	}
	if d.Exponent() < -4 {
		d = d.Round(4)
	}
	return json.Number(d.String()), nil
}

func coerceOrderID(field string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v.String(), nil
	case string:
		if v == "" {
			return nil, domain.NewValidationError(field, "must not be empty")
		}
		if len(v) > 255 {
			return nil, domain.NewValidationError(field, "must be at most 255 characters")
		}
		return v, nil
	default:
		return nil, domain.NewValidationError(field, "must be a string or UUID")
	}
}

func coerceBoundedString(field string, value interface{}, maxLen int) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, domain.NewValidationError(field, "must be a string")
	}
	if maxLen > 0 && len(s) > maxLen {
		return nil, domain.NewValidationError(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
	return s, nil
}

func coerceDigits(field string, value interface{}, size int) (interface{}, error) {
	s, ok := value.(string)
	if !ok || !isDigitString(s) || len(s) != size {
		return nil, domain.NewValidationError(field, fmt.Sprintf("must be %d digits", size))
	}
	return s, nil
}

func coerceCardMonth(field string, value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok || len(s) != 2 || !isDigitString(s) {
		return nil, domain.NewValidationError(field, "must be 2 digits between 01 and 12")
	}
	m, _ := strconv.Atoi(s)
	if m < 1 || m > 12 {
		return nil, domain.NewValidationError(field, "must be 2 digits between 01 and 12")
	}
	return s, nil
}

func coerceCardYear(field string, value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok || !isDigitString(s) || (len(s) != 2 && len(s) != 4) {
		return nil, domain.NewValidationError(field, "must be 2 or 4 digits")
	}
	return s, nil
}

func coercePhone(field string, value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok || !phonePattern.MatchString(s) {
		return nil, domain.NewValidationError(field, "must match +380XXXXXXXXX")
	}
	return s, nil
}

func coerceURL(field string, value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, domain.NewValidationError(field, "must be a string")
	}
	if len(s) > 510 {
		return nil, domain.NewValidationError(field, "must be at most 510 characters")
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil, domain.NewValidationError(field, "must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, domain.NewValidationError(field, "URL scheme must be http or https")
	}
	return s, nil
}

func coerceEmail(field string, value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, domain.NewValidationError(field, "must be a string")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return nil, domain.NewValidationError(field, "must be a valid email address")
	}
	return s, nil
}

func coerceEnum(field string, value interface{}, allowed ...string) (interface{}, error) {
	s, ok := value.(string)
	if ok {
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
	}
	return nil, domain.NewValidationError(field, fmt.Sprintf("must be one of %v", allowed))
}

func coerceInt(field string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case int:
		return json.Number(strconv.Itoa(v)), nil
	case int64:
		return json.Number(strconv.FormatInt(v, 10)), nil
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return nil, domain.NewValidationError(field, "must be an integer")
		}
		return v, nil
	default:
		return nil, domain.NewValidationError(field, "must be an integer")
	}
}

// coerceDateEdge canonicalizes report range boundaries to the gateway's
// epoch-millisecond representation. Relative durations anchor on the
// injected clock at normalization time.
func (n *Normalizer) coerceDateEdge(field string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case time.Time:
		return millis(v), nil
	case time.Duration:
		return millis(n.now().Add(v)), nil
	case string:
		t, err := parseDateTime(v)
		if err != nil {
			return nil, domain.NewValidationError(field, "must be an ISO 8601 datetime")
		}
		return millis(t), nil
	case int:
		return json.Number(strconv.Itoa(v)), nil
	case int64:
		return json.Number(strconv.FormatInt(v, 10)), nil
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return nil, domain.NewValidationError(field, "must be epoch milliseconds")
		}
		return v, nil
	default:
		return nil, domain.NewValidationError(field, "must be a time, duration, ISO string or epoch milliseconds")
	}
}

// coerceDateTime canonicalizes absolute datetimes to the gateway's
// "YYYY-MM-DD hh:mm:ss" UTC format.
func (n *Normalizer) coerceDateTime(field string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(DateTimeFormat), nil
	case time.Duration:
		return n.now().Add(v).UTC().Format(DateTimeFormat), nil
	case string:
		t, err := parseDateTime(v)
		if err != nil {
			return nil, domain.NewValidationError(field, "must be an ISO 8601 datetime")
		}
		return t.UTC().Format(DateTimeFormat), nil
	default:
		return nil, domain.NewValidationError(field, "must be a time, duration or ISO string")
	}
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range []string{DateTimeFormat, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}

func millis(t time.Time) json.Number {
	return json.Number(strconv.FormatInt(t.UnixMilli(), 10))
}

func isDigitString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package domain

import "strings"

// descriptionTranslations maps known non-English gateway descriptions to
// English. The gateway localizes some err_description values regardless of
// the requested language.
var descriptionTranslations = map[string]string{
	"Платеж не найден":        "Payment not found",
	"Превышен лимит суммы":    "The amount limit has been exceeded",
	"Неверный статус платежа": "Invalid payment status",
}

// TranslateErrDescription normalizes a gateway err_description to English
// where a translation is known, trimming trailing punctuation first.
func TranslateErrDescription(description string) string {
	description = strings.Trim(description, " .")
	if translated, ok := descriptionTranslations[description]; ok {
		return translated
	}
	return description
}

// Request-level err_code values the gateway reports for malformed or
// unauthorized requests.
var requestErrCodes = map[string]struct{}{
	"invalid_signature":     {},
	"public_key_not_found":  {},
	"order_id_empty":        {},
	"amount_limit":          {},
	"wrong_amount_currency": {},
}

// ClassifyErrCode maps a gateway err_code to a handling category. The
// gateway does not publish a closed code list; classification follows the
// code families observed in practice: anti-fraud keywords, purely numeric
// financial decline codes, expired_* lifetime codes, request-level codes,
// and err_*/shop_*/payment_*/*_not_found/*_limit non-financial codes.
func ClassifyErrCode(code string) GatewayErrorCategory {
	switch {
	case code == "" || code == "unknown":
		return CategoryUnknown
	case code == "limit" || code == "frod" || code == "decline":
		return CategoryAntiFraud
	case isDigits(code) && code != "5":
		return CategoryFinancial
	case strings.HasPrefix(code, "expired_"):
		return CategoryExpired
	default:
	}

	if _, ok := requestErrCodes[code]; ok {
		return CategoryRequest
	}

	switch {
	case strings.HasPrefix(code, "err_"),
		strings.HasPrefix(code, "shop_"),
		strings.HasPrefix(code, "payment_"),
		strings.HasSuffix(code, "_not_found"),
		strings.HasSuffix(code, "_limit"):
		return CategoryNonFinancial
	default:
		return CategoryUnknown
	}
}

func isDigits(s string) bool {
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

package domain

// Action identifies one payment operation with its own parameter contract
type Action string

const (
	ActionPay         Action = "pay"
	ActionHold        Action = "hold"
	ActionPayDonate   Action = "paydonate"
	ActionAuth        Action = "auth"
	ActionSubscribe   Action = "subscribe"
	ActionUnsubscribe Action = "unsubscribe"
	ActionRefund      Action = "refund"
	ActionStatus      Action = "status"
	ActionData        Action = "data"
	ActionReceipt     Action = "receipt"
	ActionReports     Action = "reports"
)

// FieldRule names the canonical validator applied to a request field.
// The normalizer owns the validator implementations; the schema only
// declares which rule each field carries.
type FieldRule string

const (
	RuleAmount      FieldRule = "amount"
	RuleCurrency    FieldRule = "currency"
	RuleOrderID     FieldRule = "order_id"
	RuleDescription FieldRule = "description"
	RuleCardNumber  FieldRule = "card_number"
	RuleCardCVV     FieldRule = "card_cvv"
	RuleCardMonth   FieldRule = "card_exp_month"
	RuleCardYear    FieldRule = "card_exp_year"
	RulePhone       FieldRule = "phone"
	RuleLanguage    FieldRule = "language"
	RuleURL         FieldRule = "url"
	RuleEmail       FieldRule = "email"
	RuleString      FieldRule = "string"
	RuleInt         FieldRule = "int"
	RuleDateEdge    FieldRule = "date_edge"
	RuleDateTime    FieldRule = "datetime"
	RuleRespFormat  FieldRule = "resp_format"
	RulePeriodicity FieldRule = "subscribe_periodicity"
)

// ActionSpec enumerates the field contract of one operation. Immutable;
// the registry below is defined once and only read afterwards.
type ActionSpec struct {
	Action   Action
	Required map[string]FieldRule
	Optional map[string]FieldRule
	// Checkout reports whether the action may be used for a hosted
	// checkout redirect.
	Checkout bool
}

// Declared reports whether the field is allowed for this action and
// returns its rule. Request construction is a strict allow-list: a field
// not declared here is rejected, never passed through.
func (s *ActionSpec) Declared(field string) (FieldRule, bool) {
	if r, ok := s.Required[field]; ok {
		return r, true
	}
	r, ok := s.Optional[field]
	return r, ok
}

// Shared field sets. LiqPay's payment-style actions (pay, hold, paydonate,
// auth, subscribe) accept the same base contract.
func paymentRequired() map[string]FieldRule {
	return map[string]FieldRule{
		"amount":      RuleAmount,
		"currency":    RuleCurrency,
		"description": RuleDescription,
		"order_id":    RuleOrderID,
	}
}

func paymentOptional() map[string]FieldRule {
	return map[string]FieldRule{
		"card":           RuleCardNumber,
		"card_cvv":       RuleCardCVV,
		"card_exp_month": RuleCardMonth,
		"card_exp_year":  RuleCardYear,
		"phone":          RulePhone,
		"language":       RuleLanguage,
		"server_url":     RuleURL,
		"result_url":     RuleURL,
		"expired_date":   RuleDateTime,
		"customer":       RuleString,
		"info":           RuleString,
		"ip":             RuleString,
	}
}

func withOptional(base map[string]FieldRule, extra map[string]FieldRule) map[string]FieldRule {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

var actionRegistry = map[Action]*ActionSpec{
	ActionPay: {
		Action:   ActionPay,
		Required: paymentRequired(),
		Optional: paymentOptional(),
		Checkout: true,
	},
	ActionHold: {
		Action:   ActionHold,
		Required: paymentRequired(),
		Optional: paymentOptional(),
		Checkout: true,
	},
	ActionPayDonate: {
		Action:   ActionPayDonate,
		Required: paymentRequired(),
		Optional: paymentOptional(),
		Checkout: true,
	},
	ActionAuth: {
		Action:   ActionAuth,
		Required: paymentRequired(),
		Optional: withOptional(paymentOptional(), map[string]FieldRule{
			"verifycode": RuleString,
		}),
		Checkout: true,
	},
	ActionSubscribe: {
		Action: ActionSubscribe,
		Required: withOptional(paymentRequired(), map[string]FieldRule{
			"subscribe_periodicity": RulePeriodicity,
		}),
		Optional: withOptional(paymentOptional(), map[string]FieldRule{
			"subscribe_date_start": RuleDateTime,
		}),
		Checkout: true,
	},
	ActionUnsubscribe: {
		Action:   ActionUnsubscribe,
		Required: map[string]FieldRule{"order_id": RuleOrderID},
		Optional: map[string]FieldRule{},
	},
	ActionRefund: {
		Action:   ActionRefund,
		Required: map[string]FieldRule{"order_id": RuleOrderID},
		Optional: map[string]FieldRule{"amount": RuleAmount},
	},
	ActionStatus: {
		Action:   ActionStatus,
		Required: map[string]FieldRule{"order_id": RuleOrderID},
		Optional: map[string]FieldRule{},
	},
	ActionData: {
		Action: ActionData,
		Required: map[string]FieldRule{
			"order_id": RuleOrderID,
			"info":     RuleString,
		},
		Optional: map[string]FieldRule{},
	},
	ActionReceipt: {
		Action: ActionReceipt,
		Required: map[string]FieldRule{
			"order_id": RuleOrderID,
			"email":    RuleEmail,
		},
		Optional: map[string]FieldRule{
			"language":   RuleLanguage,
			"payment_id": RuleInt,
		},
	},
	ActionReports: {
		Action: ActionReports,
		Required: map[string]FieldRule{
			"date_from": RuleDateEdge,
			"date_to":   RuleDateEdge,
		},
		Optional: map[string]FieldRule{
			"resp_format": RuleRespFormat,
		},
	},
}

// SpecFor resolves the ActionSpec for an operation.
// Unknown actions are a caller bug, reported with ACTION_UNKNOWN.
func SpecFor(action Action) (*ActionSpec, error) {
	spec, ok := actionRegistry[action]
	if !ok {
		return nil, NewUnknownActionError(string(action))
	}
	return spec, nil
}

// Actions returns all registered action identifiers
func Actions() []Action {
	actions := make([]Action, 0, len(actionRegistry))
	for a := range actionRegistry {
		actions = append(actions, a)
	}
	return actions
}

package domain

// Status is the gateway-assigned state of a transaction. The client does
// not drive this state machine; it surfaces whatever the gateway reports,
// verbatim, after signature verification.
type Status string

// Final states
const (
	StatusSuccess      Status = "success"
	StatusFailure      Status = "failure"
	StatusError        Status = "error"
	StatusReversed     Status = "reversed"
	StatusSubscribed   Status = "subscribed"
	StatusUnsubscribed Status = "unsubscribed"
)

// Wait states
const (
	StatusProcessing       Status = "processing"
	StatusPrepared         Status = "prepared"
	StatusWaitAccept       Status = "wait_accept"
	StatusWaitSecure       Status = "wait_secure"
	StatusWaitCard         Status = "wait_card"
	StatusWaitCompensation Status = "wait_compensation"
	StatusWaitLC           Status = "wait_lc"
	StatusWaitReserve      Status = "wait_reserve"
	StatusHoldWait         Status = "hold_wait"
	StatusCashWait         Status = "cash_wait"
	StatusInvoiceWait      Status = "invoice_wait"
)

// Sender-confirmation states
const (
	Status3DSVerify       Status = "3ds_verify"
	StatusCaptchaVerify   Status = "captcha_verify"
	StatusCVVVerify       Status = "cvv_verify"
	StatusIVRVerify       Status = "ivr_verify"
	StatusOTPVerify       Status = "otp_verify"
	StatusPasswordVerify  Status = "password_verify"
	StatusPhoneVerify     Status = "phone_verify"
	StatusPinVerify       Status = "pin_verify"
	StatusReceiverVerify  Status = "receiver_verify"
	StatusSenderVerify    Status = "sender_verify"
	StatusSenderAppVerify Status = "senderapp_verify"
	StatusWaitQR          Status = "wait_qr"
	StatusWaitSender      Status = "wait_sender"
)

var finalStatuses = map[Status]struct{}{
	StatusSuccess:      {},
	StatusFailure:      {},
	StatusError:        {},
	StatusReversed:     {},
	StatusSubscribed:   {},
	StatusUnsubscribed: {},
}

var confirmationStatuses = map[Status]struct{}{
	Status3DSVerify:       {},
	StatusCaptchaVerify:   {},
	StatusCVVVerify:       {},
	StatusIVRVerify:       {},
	StatusOTPVerify:       {},
	StatusPasswordVerify:  {},
	StatusPhoneVerify:     {},
	StatusPinVerify:       {},
	StatusReceiverVerify:  {},
	StatusSenderVerify:    {},
	StatusSenderAppVerify: {},
	StatusWaitQR:          {},
	StatusWaitSender:      {},
}

// IsFinal reports whether the gateway will not change this status again
func (s Status) IsFinal() bool {
	_, ok := finalStatuses[s]
	return ok
}

// RequiresConfirmation reports whether the sender must complete an extra
// verification step (3DS, OTP, ...) before the payment can proceed
func (s Status) RequiresConfirmation() bool {
	_, ok := confirmationStatuses[s]
	return ok
}

// IsFailure reports whether the status carries a gateway-side failure that
// should be mapped to a GatewayError
func (s Status) IsFailure() bool {
	return s == StatusFailure || s == StatusError
}

package liqpay

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/kevin07696/liqpay-client/internal/domain"
)

// Encode serializes a canonical parameter set into the gateway's data
// encoding: JSON wrapped in standard base64.
//
// Serialization is deterministic: keys are emitted in sorted order, so two
// logically equal parameter sets always produce identical bytes regardless
// of how the caller assembled the map. The signer operates on the encoded
// bytes, so this stability is a protocol requirement, not a nicety.
func Encode(params domain.Params) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeValidationFailed, "parameters are not encodable", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode. Numbers are decoded as json.Number so that
// Decode(Encode(p)) == p holds exactly for every canonical parameter set.
func Decode(data string) (domain.Params, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDecodeFailed, "payload is not valid base64", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var params domain.Params
	if err := dec.Decode(&params); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDecodeFailed, "payload is not a JSON object", err)
	}
	if dec.More() {
		return nil, domain.NewDomainError(domain.ErrorCodeDecodeFailed, "payload has trailing data")
	}
	return params, nil
}

package host

import (
	"bytes"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
)

// Decodes a JSON contract message. Unknown fields are rejected.
func DecodeMsg(msg []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	err := dec.Decode(out)
	if err != nil {
		return errorsmod.Wrap(ErrInvalidMsg, err.Error())
	}
	return nil
}

// Encodes a query response or reply data
func EncodeResponse(v any) ([]byte, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidMsg, err.Error())
	}
	return out, nil
}

package fixed

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"
)

func (a I128) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *I128) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	v, err := ParseI128(s)
	if err != nil {
		return err
	}

	*a = v
	return nil
}

func (a U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *U128) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return errors.Errorf("invalid u128 %q", s)
	}

	v, err := U128FromBig(n)
	if err != nil {
		return err
	}

	*a = v
	return nil
}

// ParseI128 parses a base 10 integer.
func ParseI128(s string) (I128, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return I128{}, errors.Errorf("invalid i128 %q", s)
	}

	return I128FromBig(n)
}

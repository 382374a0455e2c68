// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package amount

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/holiman/uint256"
)

// BytesLength is the length of the byte representation of an amount.
const BytesLength = 32

// Amount is a 256-bit unsigned integer used for token values like balances
// and allowances. Its canonical encoding is a 32-byte big-endian string.
type Amount struct {
	internal uint256.Int
}

// New creates a new Amount from up to 4 uint64 arguments. The
// arguments are given in the Big Endian order. No argument results in a value of zero.
// The constructor panics if more than 4 arguments are given.
func New(args ...uint64) Amount {
	if len(args) > 4 {
		panic("too many arguments")
	}
	result := Amount{}
	offset := 4 - len(args)
	for i := 0; i < len(args); i++ {
		result.internal[3-i-offset] = args[i]
	}
	return result
}

// FromBytes decodes the canonical 32-byte big-endian encoding of an amount.
// Inputs of any other length are rejected with common.ErrUnexpectedEncoding;
// they are never zero-padded or truncated.
func FromBytes(data []byte) (Amount, error) {
	if len(data) != BytesLength {
		return Amount{}, fmt.Errorf("%w: amount must be %d bytes, got %d", common.ErrUnexpectedEncoding, BytesLength, len(data))
	}
	result := Amount{}
	result.internal.SetBytes32(data)
	return result, nil
}

// ParseHex decodes a 0x-prefixed string of exactly 64 hex digits, the format
// of balances in write notifications and persisted snapshots.
func ParseHex(s string) (Amount, error) {
	if len(s) != 2+2*BytesLength || !strings.HasPrefix(s, "0x") {
		return Amount{}, fmt.Errorf("%w: expected 0x followed by %d hex digits, got %q", common.ErrUnexpectedEncoding, 2*BytesLength, s)
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", common.ErrUnexpectedEncoding, err)
	}
	return FromBytes(data)
}

// ParseDecimal decodes a non-empty string of decimal digits. Values that do
// not fit into 256 bits are rejected.
func ParseDecimal(s string) (Amount, error) {
	if len(s) == 0 {
		return Amount{}, fmt.Errorf("%w: empty decimal amount", common.ErrUnexpectedEncoding)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return Amount{}, fmt.Errorf("%w: invalid decimal amount %q", common.ErrUnexpectedEncoding, s)
		}
	}
	result := Amount{}
	if err := result.internal.SetFromDecimal(s); err != nil {
		return Amount{}, fmt.Errorf("%w: %v", common.ErrUnexpectedEncoding, err)
	}
	return result, nil
}

// Uint64 returns the amount as an uint64. The result is only valid if `IsUint64()` returns true.
func (a Amount) Uint64() uint64 {
	return a.internal.Uint64()
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.internal.IsZero()
}

// IsUint64 returns true if the amount is representable as an uint64.
func (a Amount) IsUint64() bool {
	return a.internal.IsUint64()
}

// Cmp returns -1, 0, or 1 if a is less than, equal to, or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.internal.Cmp(&b.internal)
}

// String returns the decimal representation of the amount.
func (a Amount) String() string {
	return a.internal.Dec()
}

// Hex returns the 0x-prefixed, zero-padded 64 digit hex encoding.
func (a Amount) Hex() string {
	b := a.Bytes32()
	return "0x" + hex.EncodeToString(b[:])
}

// Bytes32 returns the amount as a 32 byte array.
func (a Amount) Bytes32() [32]byte {
	return a.internal.Bytes32()
}

// MarshalText encodes the amount as a decimal string.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts the decimal form as well as the 0x-prefixed 64
// digit hex form.
func (a *Amount) UnmarshalText(text []byte) error {
	var (
		res Amount
		err error
	)
	if strings.HasPrefix(string(text), "0x") {
		res, err = ParseHex(string(text))
	} else {
		res, err = ParseDecimal(string(text))
	}
	if err != nil {
		return err
	}
	*a = res
	return nil
}

// AddOverflow returns the sum of two amounts and a boolean indicating overflow.
func AddOverflow(a, b Amount) (Amount, bool) {
	result := Amount{}
	_, overflow := result.internal.AddOverflow(&a.internal, &b.internal)
	return result, overflow
}

// SubUnderflow returns the difference of two amounts and a boolean indicating underflow.
func SubUnderflow(a, b Amount) (Amount, bool) {
	result := Amount{}
	_, underflow := result.internal.SubOverflow(&a.internal, &b.internal)
	return result, underflow
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"
	"strings"

	geth "github.com/ethereum/go-ethereum/common"
)

// ParseAddress parses the textual form of an address. The input must be a
// 0x-prefixed string of 40 hex digits; letter case is ignored, so the
// lower-case, upper-case and EIP-55 checksum spellings of an address all
// yield the identical Address and thus the identical tree key.
func ParseAddress(s string) (Address, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return Address{}, fmt.Errorf("%w: address %q lacks 0x prefix", ErrUnexpectedEncoding, s)
	}
	if !geth.IsHexAddress(s) && !geth.IsHexAddress(strings.ToLower(s)) {
		return Address{}, fmt.Errorf("%w: invalid address %q", ErrUnexpectedEncoding, s)
	}
	return Address(geth.HexToAddress(s)), nil
}

// MustParseAddress is like ParseAddress but panics on invalid input. It is
// intended for constants and tests.
func MustParseAddress(s string) Address {
	res, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return res
}

// Checksum renders the address in its EIP-55 mixed-case checksum form. This
// is the canonical textual encoding used for keys in persisted snapshots.
func (a Address) Checksum() string {
	return geth.Address(a).Hex()
}

func (a Address) String() string {
	return a.Checksum()
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Checksum()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	res, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = res
	return nil
}

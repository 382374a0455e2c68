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
	"bytes"
	"encoding/hex"
	"fmt"
)

// HashSize is the number of bytes of a Hash.
const HashSize = 32

// AddressSize is the number of bytes of an Address.
const AddressSize = 20

// AddressBits is the number of bits of an Address and thus the maximum
// depth of a tree keyed by addresses.
const AddressBits = AddressSize * 8

// ErrUnexpectedEncoding is returned whenever a byte string or a textual
// encoding does not have the exact fixed width required by its type.
const ErrUnexpectedEncoding = ConstError("unexpected encoding")

// Hash is a 32-byte digest as produced by Keccak256.
type Hash [HashSize]byte

// Address is the 160-bit identifier of an account. Its bits, most significant
// bit of the first byte first, form the path from the root of a balance tree
// to the leaf of the account.
type Address [AddressSize]byte

// HashFromBytes converts a byte slice of exactly HashSize bytes into a Hash.
func HashFromBytes(data []byte) (Hash, error) {
	var res Hash
	if len(data) != HashSize {
		return res, fmt.Errorf("%w: hash must be %d bytes, got %d", ErrUnexpectedEncoding, HashSize, len(data))
	}
	copy(res[:], data)
	return res, nil
}

// ParseHash parses a 0x-prefixed hex string of exactly 64 digits.
func ParseHash(s string) (Hash, error) {
	data, err := decodeFixedHex(s, HashSize)
	if err != nil {
		return Hash{}, err
	}
	return HashFromBytes(data)
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	res, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = res
	return nil
}

// AddressFromBytes converts a byte slice of exactly AddressSize bytes into
// an Address. Shorter or longer inputs are rejected instead of being padded
// or truncated.
func AddressFromBytes(data []byte) (Address, error) {
	var res Address
	if len(data) != AddressSize {
		return res, fmt.Errorf("%w: address must be %d bytes, got %d", ErrUnexpectedEncoding, AddressSize, len(data))
	}
	copy(res[:], data)
	return res, nil
}

// Bit returns the i-th bit of the address where bit 0 is the most
// significant bit of the first byte.
func (a Address) Bit(i int) byte {
	return (a[i/8] >> (7 - uint(i%8))) & 1
}

// Compare orders addresses lexicographically, which coincides with the
// left-to-right order of their leaves in a balance tree.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// CommonPrefixLength returns the number of leading bits shared by a and b,
// capped at limit.
func CommonPrefixLength(a, b Address, limit int) int {
	for i := 0; i < limit; i++ {
		if a.Bit(i) != b.Bit(i) {
			return i
		}
	}
	return limit
}

func decodeFixedHex(s string, size int) ([]byte, error) {
	if len(s) != 2+2*size || (s[:2] != "0x" && s[:2] != "0X") {
		return nil, fmt.Errorf("%w: expected 0x followed by %d hex digits, got %q", ErrUnexpectedEncoding, 2*size, s)
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedEncoding, err)
	}
	return data, nil
}

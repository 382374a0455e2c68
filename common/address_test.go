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
	"errors"
	"testing"
)

const checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestParseAddress_AllCasingsYieldTheSameKey(t *testing.T) {
	want := MustParseAddress(checksummed)
	inputs := []string{
		checksummed,
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED",
		"0X5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"0x5aAEB6053f3e94c9b9a09f33669435e7ef1beaed", // broken checksum is still accepted
	}
	for _, input := range inputs {
		got, err := ParseAddress(input)
		if err != nil {
			t.Fatalf("failed to parse %q: %v", input, err)
		}
		if got != want {
			t.Errorf("unexpected key for %q, got %x, want %x", input, got, want)
		}
	}
}

func TestParseAddress_RendersChecksumForm(t *testing.T) {
	addr := MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	if got, want := addr.String(), checksummed; got != want {
		t.Errorf("unexpected checksum form, got %v, want %v", got, want)
	}
}

func TestParseAddress_RejectsInvalidInput(t *testing.T) {
	inputs := []string{
		"",
		"0x",
		"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1bea",
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed00",
		"0xgaaeb6053f3e94c9b9a09f33669435e7ef1beaed",
	}
	for _, input := range inputs {
		if _, err := ParseAddress(input); !errors.Is(err, ErrUnexpectedEncoding) {
			t.Errorf("expected encoding error for %q, got %v", input, err)
		}
	}
}

func TestAddress_TextRoundTrip(t *testing.T) {
	addr := MustParseAddress(checksummed)
	text, err := addr.MarshalText()
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	var restored Address
	if err := restored.UnmarshalText(text); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if restored != addr {
		t.Errorf("unexpected address, got %v, want %v", restored, addr)
	}
}

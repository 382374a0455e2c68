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
	"fmt"
	"testing"
)

func TestConstError_CanBeDetectedWhenWrapped(t *testing.T) {
	const issue = ConstError("some issue")
	err := fmt.Errorf("context: %w", issue)
	if !errors.Is(err, issue) {
		t.Errorf("wrapped constant error not detected")
	}
	if got, want := issue.Error(), "some issue"; got != want {
		t.Errorf("unexpected message, got %v, want %v", got, want)
	}
}

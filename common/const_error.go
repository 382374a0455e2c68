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

// ConstError is an error type that can be used to define immutable
// error constants. Wrapped occurrences can be detected using errors.Is.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

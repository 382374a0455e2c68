// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ticker

import "time"

//go:generate mockgen -source ticker.go -destination ticker_mocks.go -package ticker

// Ticker delivers the ticks driving periodic work, like the refresh of a
// mirrored snapshot. Once stopped, no further ticks are delivered.
type Ticker interface {
	// C returns the channel on which the ticks are delivered.
	C() <-chan time.Time

	// Stop turns off a ticker.
	Stop()
}

// TimeTicker is a Ticker delivering ticks at a fixed interval.
type TimeTicker struct {
	ticker *time.Ticker
}

// NewTimeTicker creates a ticker ticking every d.
func NewTimeTicker(d time.Duration) TimeTicker {
	return TimeTicker{time.NewTicker(d)}
}

func (t TimeTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t TimeTicker) Stop() {
	t.ticker.Stop()
}

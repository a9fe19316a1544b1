// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import "github.com/platinasystems/xcvrmgmt/xerr"

// GetTimeScale implements C9: convert a desired µs timeout into the
// hardware's (timescale, count) pair. timescale runs 2..7, each step
// representing a decade-wider granularity; the first count under max
// wins. Returns the achievable effective timeout alongside.
func GetTimeScale(timeoutUsec, timeoutMax uint) (timescale, count, effectiveUsec uint) {
	scale := uint(1)
	for timescale = 2; timescale <= 7; timescale++ {
		count = timeoutUsec / scale
		scale *= 10
		if count < timeoutMax {
			return timescale, count, (scale / 10) * count
		}
	}
	return timescale - 1, count, (scale / 10) * count
}

// Link-fail-inhibit timer defaults and limits (§4.9).
const (
	LinkInhibitTimerDefaultMsec   = 50
	LinkInhibitTimerKxDefaultMsec = 500
	LinkInhibitTimerMaxMsec       = 511
	LinkInhibitTimerMaxOutSpecMsec = 1023
)

// ValidateLinkInhibitTimer implements the §4.9 user-visible millisecond
// range check shared by an_73_set_link_inhibit_timer[_kx]: 0 selects
// the default, otherwise the value must lie in [1, max], where max
// widens to the out-of-spec ceiling when allowOutSpec is set.
func ValidateLinkInhibitTimer(timeoutMsec uint, defaultMsec uint, allowOutSpec bool) (uint, error) {
	if timeoutMsec == 0 {
		return defaultMsec, nil
	}
	max := uint(LinkInhibitTimerMaxMsec)
	if allowOutSpec {
		max = LinkInhibitTimerMaxOutSpecMsec
	}
	if timeoutMsec < 1 || timeoutMsec > max {
		return 0, xerr.InvalidArgument
	}
	return timeoutMsec, nil
}

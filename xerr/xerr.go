// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xerr holds the error taxonomy shared by the transceiver
// management engine and the autonegotiation dispatcher, in the
// teacher's idiom of small typed status codes carried verbatim up
// call chains rather than wrapped at every frame
// (vnet/devices/ethernet/switch/bcm/internal/i2c status codes).
package xerr

import "fmt"

type Code int

const (
	OK Code = iota
	NoMem
	InvalidArgument
	InvalidPort
	InvalidSwitch
	Unsupported
	NotFound
	NoFreeResources
	StateMachineHandle
	StateMachineType
	I2cBusFailure
	ChecksumInvalid
)

var names = [...]string{
	OK:                 "ok",
	NoMem:              "no memory",
	InvalidArgument:    "invalid argument",
	InvalidPort:        "invalid port",
	InvalidSwitch:      "invalid switch",
	Unsupported:        "unsupported",
	NotFound:           "not found",
	NoFreeResources:    "no free resources",
	StateMachineHandle: "invalid state machine handle",
	StateMachineType:   "invalid state machine type",
	I2cBusFailure:      "i2c bus failure",
	ChecksumInvalid:    "checksum invalid",
}

func (c Code) String() string {
	if int(c) >= 0 && int(c) < len(names) && names[c] != "" {
		return names[c]
	}
	return "unknown error"
}

func (c Code) Error() string { return c.String() }

// Is reports whether err carries the given xerr.Code.
func Is(err error, c Code) bool {
	switch e := err.(type) {
	case Code:
		return e == c
	case interface{ Code() Code }:
		return e.Code() == c
	}
	return false
}

// Unsupportedf wraps an ability/speed name into an Unsupported error,
// the way the AN config validator names the offending ability bit.
type UnsupportedDetail struct {
	What string
}

func (u *UnsupportedDetail) Error() string { return "unsupported: " + u.What }

func (u *UnsupportedDetail) Code() Code { return Unsupported }

func Unsupportedf(format string, args ...interface{}) error {
	return &UnsupportedDetail{What: fmt.Sprintf(format, args...)}
}

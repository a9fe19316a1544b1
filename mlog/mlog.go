// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mlog adds the transceiver/autoneg debug-category gate on
// top of github.com/platinasystems/log's process-wide logger, rather
// than reimplementing Print/Printf/DaemonErr/DaemonInfo.
package mlog

import (
	"io"

	"github.com/platinasystems/log"
)

// SetWriter redirects all subsequent log output, forwarding to the
// underlying package's own Writer var.
func SetWriter(w io.Writer) {
	log.Writer = w
}

// DaemonErr and DaemonInfo pass straight through to the underlying
// package's Print, selecting the daemon facility at err/info priority
// per the facility/priority prefix convention documented on log.Print.
func DaemonErr(args ...interface{}) {
	log.Print(append([]interface{}{"daemon", "err"}, args...)...)
}
func DaemonInfo(args ...interface{}) {
	log.Print(append([]interface{}{"daemon", "info"}, args...)...)
}

// DebugFlag gates the per-category debug logging named in §6 of the
// driver's transceiver/AN spec: CFG_DBG_MOD_INTR and friends.
type DebugFlag uint32

const (
	Log2ModStateDebug, ModStateDebug DebugFlag = iota, 1 << iota
	Log2ModTypeDebug, ModTypeDebug
	Log2ModIntrDebug, ModIntrDebug
	Log2AnDebug, AnDebug
)

var debugFlagNames = [...]string{
	Log2ModStateDebug: "MOD_STATE_DEBUG",
	Log2ModTypeDebug:  "MOD_TYPE_DEBUG",
	Log2ModIntrDebug:  "MOD_INTR_DEBUG",
	Log2AnDebug:       "AN_DEBUG",
}

func (f DebugFlag) String() (s string) {
	for i, n := range debugFlagNames {
		if f&(1<<uint(i)) != 0 {
			if len(s) > 0 {
				s += ", "
			}
			s += n
		}
	}
	if len(s) == 0 {
		s = "0"
	}
	return
}

// Debug is process-wide: the switch driver configures it once from the
// xcvrPollPeriodMsec/debug config at mgmt_init and it is read (never
// written) from the mgmt task and the AN interrupt path.
var Debug DebugFlag

// Debugf formats and logs at the underlying package's default debug
// priority, gated on flag being set in Debug.
func Debugf(flag DebugFlag, format string, args ...interface{}) {
	if Debug&flag == 0 {
		return
	}
	a := make([]interface{}, 0, len(args)+1)
	a = append(a, format)
	a = append(a, args...)
	log.Printf(a...)
}

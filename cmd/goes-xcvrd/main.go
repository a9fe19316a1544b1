// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command goes-xcvrd is the standalone transceiver and
// autonegotiation management daemon: it wires package xcvr's
// management engine to package an's AN dispatcher over a board-
// specific platform facade and runs until terminated.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platinasystems/xcvrmgmt/an"
	"github.com/platinasystems/xcvrmgmt/mlog"
	"github.com/platinasystems/xcvrmgmt/xcvr"
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

var (
	flagPollMsec  = flag.Int("xcvr-poll-period-msec", 1000, "mgmt task poll period in milliseconds; 0 disables the mgmt task")
	flagGpioIntr  = flag.Int("gpio-port-intr", -1, "GPIO number used for port interrupts; negative disables it")
	flagOutSpec   = flag.Bool("an-timer-allow-out-spec", false, "widen link-fail-inhibit-timer valid range to the hardware max")
	flagOui       = flag.Uint("auto-neg-25g-oui", 0, "expected OUI in the 25G next-page extended-tech-ability message")
	flagDebug     = flag.Uint("debug", 0, "debug category bitmask (MOD_STATE_DEBUG=1 MOD_TYPE_DEBUG=2 MOD_INTR_DEBUG=4 AN_DEBUG=8)")
	flagDumpPort  = flag.Int("dump-port", -1, "print the diagnostic dump for one port index and exit")
)

func main() {
	flag.Parse()
	mlog.Debug = mlog.DebugFlag(*flagDebug)

	cfgs := discoverPortConfigs()
	anCfgs := discoverAnPortConfigs(cfgs)

	facade := newBoardFacade()

	anEngine := an.NewEngine(0, anCfgs, facade, facade, facade, facade, an.Config{
		AnTimerAllowOutSpec: *flagOutSpec,
		AutoNeg25GNxtPgOui:  uint32(*flagOui),
		Debug:               mlog.DebugFlag(*flagDebug),
	})

	var gpioPortIntr *uint
	if *flagGpioIntr >= 0 {
		v := uint(*flagGpioIntr)
		gpioPortIntr = &v
	}

	mgr := xcvr.NewManager(0, cfgs, facade, facade, facade, facade, anEngine, xcvr.Config{
		XcvrPollPeriod: time.Duration(*flagPollMsec) * time.Millisecond,
		GpioPortIntr:   gpioPortIntr,
		Debug:          mlog.DebugFlag(*flagDebug),
	})

	if *flagDumpPort >= 0 {
		dump, err := mgr.DumpPort(xcvrtype.PortIndex(*flagDumpPort))
		if err != nil {
			fmt.Fprintln(os.Stderr, "goes-xcvrd:", err)
			os.Exit(1)
		}
		fmt.Println(dump)
		return
	}

	mgr.XcvrInitialize()
	mgr.EnableInterrupt()

	mlog.DaemonInfo("goes-xcvrd: started,", len(cfgs), "ports")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	mgr.Stop()
}

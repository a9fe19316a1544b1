// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcvr

import "github.com/platinasystems/xcvrmgmt/xcvrtype"

// BusKind names which shared mux the facade's SelectBus call binds
// before an I²C transaction, per C1.
type BusKind uint8

const (
	BusQsfp BusKind = iota
	BusSfpp
)

// Facade is the capability-typed board-library surface of C1. Every
// method lives on its own narrow interface — the design notes call
// for "a trait/interface with per-method presence" rather than one
// interface every platform must implement in full — so the mgmt
// engine discovers what a given board library supports with a type
// assertion and degrades cleanly when a capability is absent, the way
// the standard library's io.ReaderFrom/io.WriterTo optional
// interfaces work.
//
// The mgmt engine takes no I²C bus lock around Facade calls; each
// implementation serializes its own transactions (the goes-xcvrd board
// facade does so per call through internal/i2c.Do). A SelectBus call
// and the calls that follow it are therefore not held under one lock
// acquisition.
type Facade interface{}

// BusSelector binds the shared I²C mux ahead of a burst of
// transactions against one hardware resource.
type BusSelector interface {
	SelectBus(sw uint, kind BusKind, hwResID uint) error
}

// I2CReadWriter is the byte-level I²C primitive.
type I2CReadWriter interface {
	I2CWriteRead(sw uint, hwResID uint, addr uint8, wr []byte, rd []byte) error
}

// XcvrMemWriter writes a small number of bytes into module memory at
// a given device/register, e.g. the SFF-8472 rate-select bytes.
type XcvrMemWriter interface {
	XcvrMemWrite(sw uint, hwResID uint, dev uint8, reg uint8, data []byte) error
}

// XcvrEepromReader performs the compound, page-boundary-respecting
// EEPROM read C1 describes.
type XcvrEepromReader interface {
	XcvrEepromRead(sw uint, hwResID uint, dev uint8, reg uint8, buf []byte) error
}

// PortXcvrStateGetter is the bulk hardware-signal query. validMask[i]
// names which ModBit bits are meaningful for hwResID[i]; stateMask[i]
// is their value. A bit absent from validMask must not be treated as
// a change by the caller.
type PortXcvrStateGetter interface {
	GetPortXcvrState(sw uint, hwResID []uint) (validMask, stateMask []xcvrtype.ModBit, err error)
}

// PortIntrPendingGetter dequeues edge-triggered pending hardware
// resource ids, up to cap entries.
type PortIntrPendingGetter interface {
	GetPortIntrPending(sw uint, cap int) (hwResID []uint, err error)
}

// PortIntrEnabler arms or disarms per-port interrupt delivery.
type PortIntrEnabler interface {
	EnablePortIntr(sw uint, hwResID []uint, enable []bool) error
}

// GpioDirSetter and GpioIntrUnmasker cover the port-interrupt GPIO
// line named by the gpioPortIntr config field.
type GpioDirSetter interface {
	GpioSetDir(sw uint, gpio uint, isOutput bool) error
}

type GpioIntrUnmasker interface {
	GpioUnmaskIntr(sw uint, gpio uint) error
}

// SerDes is the out-of-scope SerDes TX equalization collaborator: C4
// and C7 pick a configuration from an ethernet mode and hand it off
// here; the numerical training itself is never reimplemented in this
// module.
type SerDes interface {
	ConfigureSingleLaneTx(sw uint, port xcvrtype.PortIndex, mode xcvrtype.EthMode) error
	ConfigureMultiLaneTx(sw uint, port xcvrtype.PortIndex, mode xcvrtype.EthMode) error
}

// PhyDriver is the out-of-scope PHY driver collaborator used only for
// 1000BASE-T copper SFPs' Clause 28/37 AN enable (§4.3).
type PhyDriver interface {
	Enable1000BaseTAutoneg(sw uint, port xcvrtype.PortIndex, enable bool) error
}

// ChangeSignal is the upward-facing subset of ModBit composed into
// notify_xcvr_change / the xcvr_state event (§4.3).
type ChangeSignal = xcvrtype.ModBit

const (
	SignalModPres = xcvrtype.Present
	SignalRxLos   = xcvrtype.Rxlos
	SignalTxFault = xcvrtype.Txfault
)

// ChangeEvent is what the mgmt engine publishes on presence/enable/
// loss/fault changes.
type ChangeEvent struct {
	Port    xcvrtype.PortIndex
	Signals ChangeSignal
}

// Notifier is the logical event-delivery fabric named as out of scope
// in §1; this module only needs to know it exists. The production
// wiring (outside this module) would publish onto
// platinasystems/redis, the way the rest of the driver fans out
// per-port state, see SPEC_FULL.md §2.
type Notifier interface {
	// NotifyXcvrChange implements the upward API-level
	// notify_xcvr_change call, gated by eth_mode != DISABLED.
	NotifyXcvrChange(ev ChangeEvent)
	// XcvrStateEvent implements the application-level xcvr_state
	// event, emitted unconditionally on notify.
	XcvrStateEvent(ev ChangeEvent)
}

// AnRestarter is the narrow seam C4 uses to trigger an AN restart
// when a module's eth_mode changes (§4.3, §6's
// mgmt_notify_eth_mode_change): implemented by package an's Engine,
// wired in by the embedding daemon so xcvr never imports an.
type AnRestarter interface {
	RestartOnEthModeChange(sw uint, port xcvrtype.PortIndex, mode xcvrtype.EthMode)
}

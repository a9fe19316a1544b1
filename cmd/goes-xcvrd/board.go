// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"sync"

	"github.com/platinasystems/xcvrmgmt/an"
	"github.com/platinasystems/xcvrmgmt/internal/gpio"
	"github.com/platinasystems/xcvrmgmt/internal/i2c"
	"github.com/platinasystems/xcvrmgmt/mlog"
	"github.com/platinasystems/xcvrmgmt/xcvr"
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

// boardFacade is this daemon's concrete C1 platform library: the
// I²C/GPIO-backed methods talk to internal/i2c and internal/gpio the
// way fspd/qspid's board-facing commands do; the SerDes/PHY/state-
// machine/notification collaborators named out of scope in §1 are
// implemented here only as thin, logged pass-throughs so the daemon
// runs end to end without a specific board's numerical training code.
type boardFacade struct {
	i2cBus int

	mu       sync.Mutex
	pending  map[uint]xcvrtype.ModBit
	smHandles map[xcvrtype.PortIndex]int
	nextHandle int
}

func newBoardFacade() *boardFacade {
	return &boardFacade{
		i2cBus:    0,
		pending:   make(map[uint]xcvrtype.ModBit),
		smHandles: make(map[xcvrtype.PortIndex]int),
	}
}

func (b *boardFacade) SelectBus(sw uint, kind xcvr.BusKind, hwResID uint) error {
	mlog.Debugf(mlog.ModStateDebug, "board: select_bus sw=%d kind=%v hw=%d", sw, kind, hwResID)
	return nil
}

// i2cBlockMax is the widest single SMBus block transfer i2c.SMBusData
// can carry; reads/writes wider than this are split into consecutive
// transactions under the same bus lock.
const i2cBlockMax = 32

func (b *boardFacade) I2CWriteRead(sw uint, hwResID uint, addr uint8, wr []byte, rd []byte) error {
	if len(wr) == 0 {
		return nil
	}
	reg := wr[0]
	payload := wr[1:]
	return i2c.Do(b.i2cBus, addr, func(bus *i2c.Bus) error {
		if len(rd) > 0 {
			return readBlocks(bus, reg, rd)
		}
		return writeBlocks(bus, reg, payload)
	})
}

func (b *boardFacade) XcvrMemWrite(sw uint, hwResID uint, dev uint8, reg uint8, data []byte) error {
	return i2c.Do(b.i2cBus, dev, func(bus *i2c.Bus) error {
		return writeBlocks(bus, reg, data)
	})
}

func (b *boardFacade) XcvrEepromRead(sw uint, hwResID uint, dev uint8, reg uint8, buf []byte) error {
	return i2c.Do(b.i2cBus, dev, func(bus *i2c.Bus) error {
		return readBlocks(bus, reg, buf)
	})
}

// readBlocks and writeBlocks chunk a transfer wider than one SMBus
// block into consecutive reg-advancing transactions, all under the
// single i2c.Do call's bus lock.
func readBlocks(bus *i2c.Bus, reg uint8, buf []byte) error {
	for off := 0; off < len(buf); off += i2cBlockMax {
		n := len(buf) - off
		if n > i2cBlockMax {
			n = i2cBlockMax
		}
		var data i2c.SMBusData
		if err := bus.Read(reg+uint8(off), i2c.BlockData, &data); err != nil {
			return err
		}
		copy(buf[off:off+n], data[:n])
	}
	return nil
}

func writeBlocks(bus *i2c.Bus, reg uint8, buf []byte) error {
	for off := 0; off < len(buf); off += i2cBlockMax {
		n := len(buf) - off
		if n > i2cBlockMax {
			n = i2cBlockMax
		}
		var data i2c.SMBusData
		copy(data[:n], buf[off:off+n])
		if err := bus.Write(reg+uint8(off), i2c.BlockData, &data); err != nil {
			return err
		}
	}
	return nil
}

func (b *boardFacade) GetPortXcvrState(sw uint, hwResID []uint) (validMask, stateMask []xcvrtype.ModBit, err error) {
	validMask = make([]xcvrtype.ModBit, len(hwResID))
	stateMask = make([]xcvrtype.ModBit, len(hwResID))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, id := range hwResID {
		validMask[i] = xcvrtype.Present | xcvrtype.Enable | xcvrtype.Rxlos | xcvrtype.Txfault
		stateMask[i] = b.pending[id]
	}
	return validMask, stateMask, nil
}

func (b *boardFacade) GetPortIntrPending(sw uint, cap int) (hwResID []uint, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id := range b.pending {
		hwResID = append(hwResID, id)
		if len(hwResID) >= cap {
			break
		}
	}
	return hwResID, nil
}

func (b *boardFacade) EnablePortIntr(sw uint, hwResID []uint, enable []bool) error {
	mlog.Debugf(mlog.ModIntrDebug, "board: enable_port_intr %v", hwResID)
	return nil
}

func (b *boardFacade) GpioSetDir(sw uint, gpioNum uint, isOutput bool) error {
	return gpio.Pin(gpioNum).SetDir(isOutput)
}

func (b *boardFacade) GpioUnmaskIntr(sw uint, gpioNum uint) error {
	return gpio.Pin(gpioNum).UnmaskInterrupt()
}

// SerDes, out of scope: logs the chosen configuration rather than
// programming real TX equalization taps.
func (b *boardFacade) ConfigureSingleLaneTx(sw uint, port xcvrtype.PortIndex, mode xcvrtype.EthMode) error {
	mlog.Debugf(mlog.ModStateDebug, "board: configure_single_lane_tx port=%d mode=%v", port, mode)
	return nil
}

func (b *boardFacade) ConfigureMultiLaneTx(sw uint, port xcvrtype.PortIndex, mode xcvrtype.EthMode) error {
	mlog.Debugf(mlog.ModStateDebug, "board: configure_multi_lane_tx port=%d mode=%v", port, mode)
	return nil
}

// PhyDriver, out of scope.
func (b *boardFacade) Enable1000BaseTAutoneg(sw uint, port xcvrtype.PortIndex, enable bool) error {
	mlog.Debugf(mlog.ModStateDebug, "board: enable_1000base_t_autoneg port=%d enable=%v", port, enable)
	return nil
}

// Notifier, out of scope logical event-delivery fabric (§1, §2): the
// production wiring would publish these onto
// platinasystems/redis instead of mlog.
func (b *boardFacade) NotifyXcvrChange(ev xcvr.ChangeEvent) {
	mlog.DaemonInfo("notify_xcvr_change:", ev.Port, ev.Signals)
}

func (b *boardFacade) XcvrStateEvent(ev xcvr.ChangeEvent) {
	mlog.Debugf(mlog.ModStateDebug, "xcvr_state port=%d signals=%v", ev.Port, ev.Signals)
}

// AnIpMasker.
func (b *boardFacade) MaskAnIp(sw uint, epl xcvrtype.EplID, lane uint, mask uint32, enable bool) error {
	mlog.Debugf(mlog.AnDebug, "board: mask_an_ip epl=%d lane=%d mask=0x%x enable=%v", epl, lane, mask, enable)
	return nil
}

// RegisterAccessor, out of scope switch register primitive.
func (b *boardFacade) ReadReg(sw uint, addr uint32) (uint32, error) {
	mlog.Debugf(mlog.AnDebug, "board: read_reg 0x%x", addr)
	return 0, nil
}

func (b *boardFacade) WriteReg(sw uint, addr uint32, val uint32) error {
	mlog.Debugf(mlog.AnDebug, "board: write_reg 0x%x = 0x%x", addr, val)
	return nil
}

// MultiLaneCapable.
func (b *boardFacade) Is40GCapable(port xcvrtype.PortIndex) bool  { return true }
func (b *boardFacade) Is100GCapable(port xcvrtype.PortIndex) bool { return true }

// Framework, out of scope generic state-machine dispatcher: this
// daemon only needs to track that a handle exists and log the events
// it would have delivered, since the negotiation protocol itself is
// never reimplemented here (§1).
func (b *boardFacade) StartStateMachine(port xcvrtype.PortIndex, smType xcvrtype.AnSmType, initial an.State) (interface{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextHandle++
	b.smHandles[port] = b.nextHandle
	mlog.Debugf(mlog.AnDebug, "board: start_state_machine port=%d type=%v", port, smType)
	return b.nextHandle, nil
}

func (b *boardFacade) StopStateMachine(handle interface{}) {
	mlog.Debugf(mlog.AnDebug, "board: stop_state_machine handle=%v", handle)
}

func (b *boardFacade) NotifyStateMachineEvent(handle interface{}, ev an.Event, info an.EventInfo) error {
	mlog.Debugf(mlog.AnDebug, "board: notify_state_machine_event handle=%v event=%v", handle, ev)
	return nil
}

// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
	"github.com/platinasystems/xcvrmgmt/xerr"
)

var errNoFreeResources = xerr.NoFreeResources

// MaxNextPages bounds the ordered next-page sequence a port can queue
// for transmission (§3's "bounded sequence of 64-bit next-page
// words").
const MaxNextPages = 16

// PortConfig is the immutable-per-session AN configuration C5/C7
// consult to resolve a lane interrupt to a port and to validate
// readiness.
type PortConfig struct {
	PortID               xcvrtype.PortIndex
	Epl                  xcvrtype.EplID
	Lane                 uint
	DeclaredCapabilities uint64
	AutoNeg25GNxtPgOui   uint32
}

// PortState is the AN port extension of §3: one per port-index,
// alongside (not inheriting from) the transceiver record.
type PortState struct {
	cfg PortConfig

	AnSmType        xcvrtype.AnSmType
	AnInterruptMask uint32
	AutonegMode     xcvrtype.AnMode
	EthMode         xcvrtype.EthMode

	BasePage         Page
	NextPages        []Page
	PartnerNextPages []Page

	NegotiatedEeeEnabled bool
	IgnoreNonce          bool

	LinkInhibitTimerMsec   uint
	LinkInhibitTimerKxMsec uint

	handle smHandle
}

func newPortState(cfg PortConfig) *PortState {
	return &PortState{
		cfg:                    cfg,
		AnSmType:                xcvrtype.SmNone,
		LinkInhibitTimerMsec:    LinkInhibitTimerDefaultMsec,
		LinkInhibitTimerKxMsec:  LinkInhibitTimerKxDefaultMsec,
	}
}

// Config returns the record's immutable AN configuration.
func (s *PortState) Config() PortConfig { return s.cfg }

// AddNextPage implements an_add_next_page: append a page to the
// queued sequence, maintaining the invariant that every page but the
// last carries the NP bit (§3).
func (s *PortState) AddNextPage(page Page) error {
	if len(s.NextPages) >= MaxNextPages {
		return errNoFreeResources
	}
	if n := len(s.NextPages); n > 0 {
		s.NextPages[n-1] = s.NextPages[n-1].WithNP()
	}
	s.NextPages = append(s.NextPages, page)
	return nil
}

// Table is the switch-owned array of per-port AN extension records,
// indexed by the same xcvrtype.PortIndex space as package xcvr's
// transceiver table (§9's design note on index handles).
type Table struct {
	records []*PortState
	eplMap  map[xcvrtype.EplID]*xcvrtype.EplLaneMap
}

// NewTable allocates per-port AN state at switch init, matching
// xcvr.NewTable's PortIndex-ordered allocation convention.
func NewTable(cfgs []PortConfig) *Table {
	t := &Table{
		records: make([]*PortState, len(cfgs)),
		eplMap:  make(map[xcvrtype.EplID]*xcvrtype.EplLaneMap),
	}
	for i, cfg := range cfgs {
		t.records[i] = newPortState(cfg)
		m, ok := t.eplMap[cfg.Epl]
		if !ok {
			m = &xcvrtype.EplLaneMap{Port: [4]xcvrtype.PortIndex{
				xcvrtype.NoPort, xcvrtype.NoPort, xcvrtype.NoPort, xcvrtype.NoPort,
			}}
			t.eplMap[cfg.Epl] = m
		}
		if cfg.Lane < 4 {
			m.Port[cfg.Lane] = cfg.PortID
		}
	}
	return t
}

func (t *Table) Len() int { return len(t.records) }

// Record returns the AN extension record for port, or nil if out of
// range.
func (t *Table) Record(port xcvrtype.PortIndex) *PortState {
	if port < 0 || int(port) >= len(t.records) {
		return nil
	}
	return t.records[port]
}

// PortAt resolves an (epl, lane) pair to the owning port index, or
// NoPort if the lane has no parent port — C5's "if no port owns the
// lane, drop silently" case.
func (t *Table) PortAt(epl xcvrtype.EplID, lane uint) xcvrtype.PortIndex {
	m, ok := t.eplMap[epl]
	if !ok {
		return xcvrtype.NoPort
	}
	return m.PortAt(lane)
}

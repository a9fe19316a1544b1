// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package an implements the IEEE 802.3 Clause 37/Clause 73
// autonegotiation dispatcher: decoding AN interrupt-pending bits into
// ordered per-port state machine events, validating and restarting a
// port's AN configuration, and interpreting the Clause 73 highest
// common denominator and next-page sequence, in the style of the
// teacher's vnet/devices/ethernet/switch register-field helpers.
package an

import "github.com/platinasystems/xcvrmgmt/xcvrtype"

// Page is one 64-bit Clause 73 base page or next page word (IEEE
// 802.3 Annex 28B/28C wire format).
type Page uint64

// npBit is the NP (next page) bit of the AN_73_NEXT_PAGE_TX/RX word:
// set on every queued page but the last, per §3's invariant.
const npBit Page = 1 << 47

func bit64(p Page, n uint) uint64 { return (uint64(p) >> n) & 1 }

func field64(p Page, lo, hi uint) uint64 {
	var v uint64
	for i := lo; i <= hi; i++ {
		v |= bit64(p, i) << (i - lo)
	}
	return v
}

// txAbilityField is the Clause 73 base page's transmitted ability
// field A, bits [21:45] of AN_73_BASE_PAGE_TX in the switch's
// register map; this module only needs the 24 bits worth of defined
// speed abilities, so the low-order alias below is what TxAbility/
// SetTxAbility operate on.
const (
	abilityLo = 21
	abilityHi = 44
)

// TxAbility extracts the advertised ability field from a Clause 73
// base page.
func (p Page) TxAbility() uint32 { return uint32(field64(p, abilityLo, abilityHi)) }

// WithTxAbility returns p with its ability field replaced by ability,
// used by ValidateBasePage to write back the cleaned field.
func (p Page) WithTxAbility(ability uint32) Page {
	cleared := uint64(p)
	for i := abilityLo; i <= abilityHi; i++ {
		cleared &^= 1 << uint(i)
	}
	cleared |= uint64(ability&((1<<uint(abilityHi-abilityLo+1))-1)) << abilityLo
	return Page(cleared)
}

// HasNP reports whether p's NP bit is set.
func (p Page) HasNP() bool { return p&npBit != 0 }

// WithNP sets p's NP bit.
func (p Page) WithNP() Page { return p | npBit }

// messageField is the message/unformatted code field, bits [0:10] of
// every next page (IEEE 802.3 Annex 28C).
func (p Page) messageField() uint64 { return field64(p, 0, 10) }

// Clause 73 Ability bits (AN_73_BASE_PAGE_TX.A, per the supported
// subset named in §4.5).
const (
	Ability1000BaseKX  uint32 = 1 << 0
	Ability10GBaseKR   uint32 = 1 << 1
	Ability40GBaseKR4  uint32 = 1 << 2
	Ability40GBaseCR4  uint32 = 1 << 3
	Ability100GBaseKR4 uint32 = 1 << 4
	Ability100GBaseCR4 uint32 = 1 << 5
	Ability25GBaseKR   uint32 = 1 << 6
	Ability25GBaseCR   uint32 = 1 << 7
)

// SupportedAbilities is the mask of abilities this module's AN
// implementation recognizes; anything outside it is unsupported per
// §4.5.
const SupportedAbilities = Ability1000BaseKX | Ability10GBaseKR |
	Ability25GBaseKR | Ability25GBaseCR | Ability40GBaseKR4 |
	Ability40GBaseCR4 | Ability100GBaseKR4 | Ability100GBaseCR4

const abilities40G = Ability40GBaseKR4 | Ability40GBaseCR4
const abilities100G = Ability100GBaseKR4 | Ability100GBaseCR4

// Hcd is the Clause 73 Highest Common Denominator code (IEEE 802.3
// Table 73-6).
type Hcd uint

const (
	HcdIncompatibleLink Hcd = 0
	Hcd10KR             Hcd = 1
	HcdKX4              Hcd = 2
	HcdKX               Hcd = 3
	Hcd40KR4            Hcd = 4
	Hcd40CR4            Hcd = 5
	Hcd100CR10          Hcd = 6
	Hcd100KP4           Hcd = 7
	Hcd100KR4           Hcd = 8
	Hcd100CR4           Hcd = 9
	Hcd25KR             Hcd = 10
	Hcd25CR             Hcd = 11
)

func (h Hcd) String() string {
	var n = [...]string{
		HcdIncompatibleLink: "incompatible-link",
		Hcd10KR:             "10g-kr",
		HcdKX4:              "kx4",
		HcdKX:               "kx",
		Hcd40KR4:            "40g-kr4",
		Hcd40CR4:            "40g-cr4",
		Hcd100CR10:          "100g-cr10",
		Hcd100KP4:           "100g-kp4",
		Hcd100KR4:           "100g-kr4",
		Hcd100CR4:           "100g-cr4",
		Hcd25KR:             "25g-kr",
		Hcd25CR:             "25g-cr",
	}
	if int(h) < len(n) && n[h] != "" {
		return n[h]
	}
	return "invalid"
}

// HcdToEthMode implements C8's hcd_to_eth_mode: total over the full
// Hcd range, a bijection on the eight HCDs that name a real ethernet
// mode (§8's round-trip law).
func HcdToEthMode(h Hcd) xcvrtype.EthMode {
	switch h {
	case HcdKX:
		return xcvrtype.Eth1000BaseKX
	case Hcd10KR:
		return xcvrtype.Eth10GBaseKR
	case Hcd40CR4:
		return xcvrtype.Eth40GBaseCR4
	case Hcd40KR4:
		return xcvrtype.Eth40GBaseKR4
	case Hcd100KR4:
		return xcvrtype.Eth100GBaseKR4
	case Hcd100CR4:
		return xcvrtype.Eth100GBaseCR4
	case Hcd25KR:
		return xcvrtype.Eth25GBaseKR
	case Hcd25CR:
		return xcvrtype.Eth25GBaseCR
	default:
		return xcvrtype.Disabled
	}
}

// EthModeToHcd is the inverse of HcdToEthMode, defined only on the
// eight modes HcdToEthMode can produce; it is a bijection with
// HcdToEthMode over that restricted domain (§8).
func EthModeToHcd(m xcvrtype.EthMode) (Hcd, bool) {
	switch m {
	case xcvrtype.Eth1000BaseKX:
		return HcdKX, true
	case xcvrtype.Eth10GBaseKR:
		return Hcd10KR, true
	case xcvrtype.Eth40GBaseCR4:
		return Hcd40CR4, true
	case xcvrtype.Eth40GBaseKR4:
		return Hcd40KR4, true
	case xcvrtype.Eth100GBaseKR4:
		return Hcd100KR4, true
	case xcvrtype.Eth100GBaseCR4:
		return Hcd100CR4, true
	case xcvrtype.Eth25GBaseKR:
		return Hcd25KR, true
	case xcvrtype.Eth25GBaseCR:
		return Hcd25CR, true
	}
	return HcdIncompatibleLink, false
}

// IEEE 802.3 Annex 28C message codes this module interprets.
const (
	msgCodeOUITagged Page = 5
	msgCodeEEE       Page = 13
)

// extTechAbilityMessage is the unformatted-next-page message value
// (bits [8:0]) identifying an Extended Technology Ability page per
// the 25G Ethernet Consortium next-page convention named in §4.7.
const extTechAbilityMessage = 0x3

// NextPageExtTechAbilityIndex implements C8's next-page scan for the
// 25G extended-technology-ability message: it walks pairs of
// (message page, unformatted page), reconstructs the 24-bit OUI per
// the exact bit layout in §4.7, and returns the index of the
// unformatted page when the OUI matches wantOUI.
func NextPageExtTechAbilityIndex(pages []Page, wantOUI uint32) (index int, found bool) {
	for i := 0; i+1 < len(pages); i++ {
		a := pages[i]
		if a.messageField() != uint64(msgCodeOUITagged) {
			continue
		}
		b := pages[i+1]
		if field64(b, 0, 8) != extTechAbilityMessage {
			continue
		}
		var oui uint32
		for cnt := uint(0); cnt < 2; cnt++ {
			oui |= uint32(bit64(b, 9+cnt)) << cnt
		}
		for cnt := uint(0); cnt < 11; cnt++ {
			oui |= uint32(bit64(a, 32+cnt)) << (cnt + 2)
		}
		for cnt := uint(0); cnt < 11; cnt++ {
			oui |= uint32(bit64(a, 16+cnt)) << (cnt + 13)
		}
		if oui == wantOUI {
			return i + 1, true
		}
	}
	return -1, false
}

// Is25GConfiguredInNextPage reports whether the extended-technology-
// ability page, if present and OUI-matched, advertises 25GBASE-CR1
// (bit 20) or 25GBASE-KR1 (bit 21).
func Is25GConfiguredInNextPage(pages []Page, wantOUI uint32) bool {
	idx, found := NextPageExtTechAbilityIndex(pages, wantOUI)
	if !found {
		return false
	}
	page := pages[idx]
	return bit64(page, 20) != 0 || bit64(page, 21) != 0
}

// VerifyEeeNegotiation implements C8's EEE negotiation check: scan
// the partner's received next pages for an EEE message whose body
// advertises EEE support for the negotiated mode.
func VerifyEeeNegotiation(mode xcvrtype.AnMode, ethMode xcvrtype.EthMode, partnerPages []Page) (negotiated bool) {
	if mode != xcvrtype.AnClause73 {
		return false
	}
	const (
		eeeBit10GBaseKR  = 1 << 12
		eeeBit1000BaseKX = 1 << 11
	)
	for _, p := range partnerPages {
		if p.messageField() != uint64(msgCodeEEE) {
			continue
		}
		if ethMode == xcvrtype.Eth10GBaseKR && uint64(p)&eeeBit10GBaseKR != 0 {
			return true
		}
		if ethMode == xcvrtype.Eth1000BaseKX && uint64(p)&eeeBit1000BaseKX != 0 {
			return true
		}
	}
	return false
}

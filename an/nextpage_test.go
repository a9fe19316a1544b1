// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"testing"

	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

func TestTxAbilityRoundTrip(t *testing.T) {
	var p Page
	p = p.WithTxAbility(Ability10GBaseKR | Ability25GBaseCR)
	got := p.TxAbility()
	want := uint32(Ability10GBaseKR | Ability25GBaseCR)
	if got != want {
		t.Errorf("TxAbility() = 0x%x, want 0x%x", got, want)
	}
}

func TestNPBit(t *testing.T) {
	var p Page
	if p.HasNP() {
		t.Fatal("zero page should not have NP set")
	}
	p = p.WithNP()
	if !p.HasNP() {
		t.Fatal("expected NP set after WithNP")
	}
}

func TestHcdToEthModeBijection(t *testing.T) {
	hcds := []Hcd{HcdKX, Hcd10KR, Hcd40CR4, Hcd40KR4, Hcd100KR4, Hcd100CR4, Hcd25KR, Hcd25CR}
	seen := map[xcvrtype.EthMode]bool{}
	for _, h := range hcds {
		m := HcdToEthMode(h)
		if m == xcvrtype.Disabled {
			t.Errorf("HcdToEthMode(%v) = Disabled, want a real mode", h)
		}
		if seen[m] {
			t.Errorf("HcdToEthMode(%v) = %v, duplicate of an earlier hcd", h, m)
		}
		seen[m] = true

		back, ok := EthModeToHcd(m)
		if !ok {
			t.Errorf("EthModeToHcd(%v) reported not ok", m)
		}
		if back != h {
			t.Errorf("round trip %v -> %v -> %v, want %v", h, m, back, h)
		}
	}
}

func TestHcdToEthModeTotalOverFullRange(t *testing.T) {
	for h := Hcd(0); h <= Hcd25CR; h++ {
		_ = HcdToEthMode(h) // must not panic over the defined range
	}
}

func TestEthModeToHcdUndefinedMode(t *testing.T) {
	if _, ok := EthModeToHcd(xcvrtype.Sgmii); ok {
		t.Error("EthModeToHcd(Sgmii) should report not ok")
	}
}

func buildOUITaggedNextPages(oui uint32, techAbilityBits uint64) []Page {
	var msg Page
	msg = Page(uint64(msgCodeOUITagged))
	msg |= Page(((uint64(oui) >> 2) & 0x7ff) << 32)
	msg |= Page(((uint64(oui) >> 13) & 0x7ff) << 16)

	var unf Page
	unf = Page(extTechAbilityMessage)
	unf |= Page((uint64(oui) & 0x3) << 9)
	unf |= Page(techAbilityBits)

	return []Page{msg, unf}
}

func TestNextPageExtTechAbilityIndexFindsOUI(t *testing.T) {
	pages := buildOUITaggedNextPages(0x6A737, 0)
	idx, found := NextPageExtTechAbilityIndex(pages, 0x6A737)
	if !found {
		t.Fatal("expected to find the OUI-tagged page")
	}
	if idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}
}

func TestNextPageExtTechAbilityIndexWrongOUI(t *testing.T) {
	pages := buildOUITaggedNextPages(0x6A737, 0)
	_, found := NextPageExtTechAbilityIndex(pages, 0x000001)
	if found {
		t.Fatal("expected not to find a mismatched OUI")
	}
}

func TestIs25GConfiguredInNextPage(t *testing.T) {
	pages := buildOUITaggedNextPages(0x6A737, 1<<20)
	if !Is25GConfiguredInNextPage(pages, 0x6A737) {
		t.Fatal("expected 25G bit 20 to be detected")
	}
	none := buildOUITaggedNextPages(0x6A737, 0)
	if Is25GConfiguredInNextPage(none, 0x6A737) {
		t.Fatal("expected no 25G configuration without bits 20/21 set")
	}
}

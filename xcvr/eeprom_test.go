// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcvr

import (
	"testing"

	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

func sfpWithChecksum() [CacheSize]byte {
	var buf [CacheSize]byte
	for i := range buf {
		buf[i] = 0
	}
	buf[offIdentifier] = idSfp
	buf[offTransceiverTech] = 0 // optical
	buf[off10GCompliance] = 0x10
	buf[offBaseChecksum] = sum8(buf[:], 0, offBaseChecksum-1)
	return buf
}

func TestIsBaseCsumValid(t *testing.T) {
	buf := sfpWithChecksum()
	if !IsBaseCsumValid(buf[:]) {
		t.Fatal("expected valid checksum")
	}
	buf[0] ^= 0xff
	if IsBaseCsumValid(buf[:]) {
		t.Fatal("expected invalid checksum after corruption")
	}
}

func TestIsAllOnes(t *testing.T) {
	var buf [CacheSize]byte
	for i := range buf {
		buf[i] = 0xff
	}
	if !IsAllOnes(buf[:]) {
		t.Error("expected all-ones buffer to be detected")
	}
	buf[10] = 0
	if IsAllOnes(buf[:]) {
		t.Error("expected mutated buffer not to be all-ones")
	}
}

func TestGetTypeSfpOptical(t *testing.T) {
	buf := sfpWithChecksum()
	if got := GetType(buf[:]); got != xcvrtype.SfpSR {
		t.Errorf("GetType() = %v, want %v", got, xcvrtype.SfpSR)
	}
}

func TestGetTypeUnknownOnBadChecksum(t *testing.T) {
	buf := sfpWithChecksum()
	buf[offBaseChecksum] ^= 0xff
	if got := GetType(buf[:]); got != xcvrtype.Unknown {
		t.Errorf("GetType() = %v, want %v", got, xcvrtype.Unknown)
	}
}

func TestGetTypeUnrecognizedIdWithGoodChecksumNotUnknown(t *testing.T) {
	var buf [CacheSize]byte
	buf[offIdentifier] = 0x7f // not one of idSfp/idQsfp/idQsfpPlus/idQsfp28
	buf[offBaseChecksum] = sum8(buf[:], 0, offBaseChecksum-1)
	if got := GetType(buf[:]); got == xcvrtype.Unknown {
		t.Errorf("GetType() = %v, want a non-Unknown type for a valid checksum with an unrecognized id byte", got)
	}
}

func TestGetTypeNotPresentOnAllOnes(t *testing.T) {
	var buf [CacheSize]byte
	for i := range buf {
		buf[i] = 0xff
	}
	if got := GetType(buf[:]); got != xcvrtype.NotPresent {
		t.Errorf("GetType() = %v, want %v", got, xcvrtype.NotPresent)
	}
}

func TestIs1000BaseT(t *testing.T) {
	buf := sfpWithChecksum()
	if Is1000BaseT(buf[:]) {
		t.Error("expected not 1000base-t")
	}
	buf[offEthCompliance] = 0x08
	if !Is1000BaseT(buf[:]) {
		t.Error("expected 1000base-t after setting bit 3")
	}
}

func TestIs10G1GDualRate(t *testing.T) {
	buf := sfpWithChecksum()
	if Is10G1GDualRate(buf[:]) {
		t.Error("expected not dual-rate without rate-select option")
	}
	buf[offOptions] = 0x08
	if !Is10G1GDualRate(buf[:]) {
		t.Error("expected dual-rate with rate-select option and 10G compliance")
	}
}

func TestGetVendorInfoTrimsPadding(t *testing.T) {
	buf := sfpWithChecksum()
	copy(buf[offVendorName:], []byte("ACME            "))
	copy(buf[offVendorSerialNumber:], []byte("SN12345         "))
	v := GetVendorInfo(buf[:])
	if v.Name != "ACME" {
		t.Errorf("Name = %q, want %q", v.Name, "ACME")
	}
	if v.SerialNumber != "SN12345" {
		t.Errorf("SerialNumber = %q, want %q", v.SerialNumber, "SN12345")
	}
}

func TestGetMonitoring(t *testing.T) {
	buf := sfpWithChecksum()
	buf[offTemperature], buf[offTemperature+1] = 0x19, 0x00 // 25.0C
	m := GetMonitoring(buf[:])
	if m.TemperatureCelsius != 25.0 {
		t.Errorf("TemperatureCelsius = %v, want 25.0", m.TemperatureCelsius)
	}
}

// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcvr

import "github.com/platinasystems/xcvrmgmt/xcvrtype"

// CacheSize is the size of the cached raw EEPROM dump kept per §3; it
// covers the SFF-8472/SFF-8436 lower memory map plus upper page 0,
// which is all the base identity/compliance/checksum fields this
// module parses.
const CacheSize = 256

// Eeprom is the pure-function decoder over a cached SFF-8472 (SFP+) or
// SFF-8436 (QSFP) byte buffer (C2). It performs no I/O; §3's
// "eeprom_base_valid ⇒ type ≠ UNKNOWN" invariant is enforced by
// callers, not here.
type Eeprom struct{}

// SFF-8472 lower-page byte offsets this codec reads.
const (
	offIdentifier          = 0
	offEthCompliance       = 6  // bit3 = 1000BASE-T
	offTransceiverTech     = 8  // bit2 = passive copper, bit3 = active copper
	off10GCompliance       = 3  // bit4 = 10GBASE-SR, bit5 = 10GBASE-LR
	offCopperCableLength   = 18 // units of 1m, copper/active cable only
	offOptions             = 64 // bit3 = rate select implemented (table 3.17)
	offBaseChecksum        = 63
	offExtIdentifier       = 1
	offExtChecksumFirst    = 64
	offExtChecksumLast     = 94
	offExtChecksum         = 95
)

// SFF-8472 vendor-string fields (lower page, ASCII, space-padded).
const (
	offVendorName         = 20
	lenVendorName         = 16
	offVendorPartNumber   = 40
	lenVendorPartNumber   = 16
	offVendorRevision     = 56
	lenVendorRevision     = 4
	offVendorSerialNumber = 68
	lenVendorSerialNumber = 16
	offVendorDateCode     = 84
	lenVendorDateCode     = 8
)

// SFF-8472 diagnostic monitoring real-time readings (lower page,
// table 9.11). Each field is a 16-bit big-endian raw reading; the
// scaling constants convert to the named physical unit.
const (
	offTemperature = 96
	offSupplyVolts = 98
	offTxBias      = 100
	offTxPower     = 102
	offRxPower     = 104
)

const (
	TemperatureToCelsius = 1 / 256.0
	SupplyVoltsToVolts   = 100e-6
	TxBiasToAmps         = 2e-6
	OpticalPowerToWatts  = 0.1e-6
)

const (
	idSfp      = 0x03
	idQsfp     = 0x0c
	idQsfpPlus = 0x0d
	idQsfp28   = 0x11
)

func sum8(buf []byte, lo, hi int) (s byte) {
	for i := lo; i <= hi; i++ {
		s += buf[i]
	}
	return
}

// IsAllOnes reports whether the cache looks like the "module absent"
// fill pattern of §3 (0xFF throughout).
func IsAllOnes(buf []byte) bool {
	for _, b := range buf {
		if b != 0xff {
			return false
		}
	}
	return true
}

// IsBaseCsumValid implements C2's is_base_csum_valid: SFF-8472 CC_BASE
// is the 8-bit sum of bytes 0-62, stored at byte 63.
func IsBaseCsumValid(buf []byte) bool {
	if len(buf) <= offBaseChecksum {
		return false
	}
	return sum8(buf, 0, offBaseChecksum-1) == buf[offBaseChecksum]
}

// IsExtCsumValid implements C2's is_ext_csum_valid: SFF-8472 CC_EXT is
// the 8-bit sum of bytes 64-94, stored at byte 95.
func IsExtCsumValid(buf []byte) bool {
	if len(buf) <= offExtChecksum {
		return false
	}
	return sum8(buf, offExtChecksumFirst, offExtChecksumLast) == buf[offExtChecksum]
}

// GetType implements C2's get_type.
func GetType(buf []byte) xcvrtype.XcvrType {
	if len(buf) == 0 || IsAllOnes(buf) {
		return xcvrtype.NotPresent
	}
	if !IsBaseCsumValid(buf) {
		return xcvrtype.Unknown
	}
	id := buf[offIdentifier]
	tech := buf[offTransceiverTech]
	switch id {
	case idQsfp, idQsfpPlus, idQsfp28:
		switch {
		case tech&0x0c != 0:
			return xcvrtype.QsfpCR4
		default:
			// No dedicated SR4/LR4 compliance table is parsed
			// here (dataplane only needs DAC vs optical for
			// QSFP); default to SR4 for optical modules.
			return xcvrtype.QsfpSR4
		}
	case idSfp:
		switch {
		case tech&0x08 != 0:
			return xcvrtype.Dac // active copper
		case tech&0x04 != 0:
			return xcvrtype.Dac // passive copper
		case Is1000BaseT(buf):
			return xcvrtype.SfpCu1000BaseT
		case buf[off10GCompliance]&0x10 != 0:
			return xcvrtype.SfpSR
		case buf[off10GCompliance]&0x20 != 0:
			return xcvrtype.SfpLR
		default:
			return xcvrtype.SfpSR
		}
	default:
		// A validated checksum means this is a real, readable
		// module even if its SFF-8024 identifier isn't one of the
		// four hard-coded here; fall back to generic optical rather
		// than collapsing a present, valid module to Unknown.
		return xcvrtype.SfpSR
	}
}

// GetLength implements C2's get_length: cable length in metres, 0 for
// optical or unknown modules. SFF-8472 byte 18 carries copper/active
// cable length in 1m units; it is meaningless for optical modules.
func GetLength(buf []byte) uint {
	if len(buf) <= offCopperCableLength {
		return 0
	}
	t := GetType(buf)
	if t != xcvrtype.Dac && t != xcvrtype.QsfpCR4 {
		return 0
	}
	return uint(buf[offCopperCableLength])
}

// Is1000BaseT implements C2's is_1000base_t: SFF-8472 byte 6 bit 3.
func Is1000BaseT(buf []byte) bool {
	if len(buf) <= offEthCompliance {
		return false
	}
	return buf[offEthCompliance]&0x08 != 0
}

// Is10G1GDualRate implements C2's is_10g1g_dual_rate: SFF-8472 table
// 3.17, Options byte bit 3 (rate select implemented) combined with a
// 10G compliance code — the module can be switched between 1G and 10G
// electrical rates by writing the rate-select bytes (§4.3).
func Is10G1GDualRate(buf []byte) bool {
	if len(buf) <= offOptions {
		return false
	}
	hasRateSelect := buf[offOptions]&0x08 != 0
	has10G := buf[off10GCompliance]&0x30 != 0
	return hasRateSelect && has10G
}

func trimAscii(b []byte) string {
	i := len(b)
	for i > 0 && (b[i-1] == ' ' || b[i-1] == 0) {
		i--
	}
	return string(b[:i])
}

// VendorInfo is the module identity string set `mgmt_dump_port` prints
// (§4's supplemented module string dump), grounded on the SFF-8472
// vendor fields sfp.Eeprom.String() prints.
type VendorInfo struct {
	Name, PartNumber, Revision, SerialNumber, DateCode string
}

// GetVendorInfo implements C2's module string dump: the SFF-8472
// vendor ASCII fields, trimmed of trailing padding.
func GetVendorInfo(buf []byte) VendorInfo {
	field := func(off, n int) string {
		if len(buf) < off+n {
			return ""
		}
		return trimAscii(buf[off : off+n])
	}
	return VendorInfo{
		Name:         field(offVendorName, lenVendorName),
		PartNumber:   field(offVendorPartNumber, lenVendorPartNumber),
		Revision:     field(offVendorRevision, lenVendorRevision),
		SerialNumber: field(offVendorSerialNumber, lenVendorSerialNumber),
		DateCode:     field(offVendorDateCode, lenVendorDateCode),
	}
}

// Monitoring is the SFF-8472 real-time diagnostic monitoring subset
// (§4's supplemented EEPROM monitoring), read by C2 but never acted on
// by the mgmt engine.
type Monitoring struct {
	TemperatureCelsius float64
	SupplyVolts        float64
	TxBiasAmps         float64
	TxPowerWatts       float64
	RxPowerWatts       float64
}

func be16(buf []byte, off int) uint16 {
	return uint16(buf[off])<<8 | uint16(buf[off+1])
}

// GetMonitoring implements C2's real-time monitoring read: the module
// must support digital diagnostics (checked by the caller via
// eeprom_ext_valid, as with any upper-page field) for these readings
// to be meaningful.
func GetMonitoring(buf []byte) Monitoring {
	if len(buf) < offRxPower+2 {
		return Monitoring{}
	}
	return Monitoring{
		TemperatureCelsius: float64(int16(be16(buf, offTemperature))) * TemperatureToCelsius,
		SupplyVolts:        float64(be16(buf, offSupplyVolts)) * SupplyVoltsToVolts,
		TxBiasAmps:         float64(be16(buf, offTxBias)) * TxBiasToAmps,
		TxPowerWatts:       float64(be16(buf, offTxPower)) * OpticalPowerToWatts,
		RxPowerWatts:       float64(be16(buf, offRxPower)) * OpticalPowerToWatts,
	}
}

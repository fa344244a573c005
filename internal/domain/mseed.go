package domain

import "encoding/binary"

// miniSEED fixed header layout (SEED manual, chapter 8): 48-byte fixed
// section, blockette chain offset at bytes 46-47, Blockette 1000 carries the
// data record length as a power of two at byte offset 6 within the blockette.
const (
	mseedFixedHeaderLen   = 48
	mseedBlockette1000    = 1000
	mseedDefaultRecordLen = 512
)

// CountMiniSEEDRecords estimates how many miniSEED records a payload holds by
// reading the record length from the first record's Blockette 1000. Falls
// back to the 512-byte default record length when the blockette is absent or
// unreadable. Zero-length payloads count as zero records.
func CountMiniSEEDRecords(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	recLen := mseedRecordLen(data)
	n := len(data) / recLen
	if len(data)%recLen != 0 {
		n++
	}
	return n
}

// mseedRecordLen walks the first record's blockette chain looking for
// Blockette 1000. Blockette headers are big-endian: two bytes type, two
// bytes next-blockette offset.
func mseedRecordLen(data []byte) int {
	if len(data) < mseedFixedHeaderLen {
		return mseedDefaultRecordLen
	}

	offset := int(binary.BigEndian.Uint16(data[46:48]))
	for i := 0; offset != 0 && i < 8; i++ {
		if offset+8 > len(data) {
			break
		}
		blocketteType := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		next := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		if blocketteType == mseedBlockette1000 {
			power := int(data[offset+6])
			if power >= 8 && power <= 20 {
				return 1 << power
			}
			break
		}
		if next <= offset {
			break
		}
		offset = next
	}
	return mseedDefaultRecordLen
}

// Package address translates between SNES bus addresses and PC (file) offsets
// for LoROM cartridge images.
package address

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alttpo/snes/mapping/lorom"
)

// LoROM geometry.
const (
	BankSize   = 0x8000
	PageOffset = 0x8000
	FastBank   = 0x80
)

var (
	// ErrNotROM indicates a bus address that does not map to cartridge ROM.
	ErrNotROM = errors.New("address does not map to ROM")

	// ErrSyntax indicates text that does not spell an address.
	ErrSyntax = errors.New("invalid address syntax")
)

// Address is a 24-bit SNES bus address such as 0xC2AE5D. Parsed entities are
// keyed by the address they were read from.
type Address uint32

// New builds an address from a bank and a 16-bit offset within the bank.
func New(bank uint8, offset uint16) Address {
	return Address(uint32(bank)<<16 | uint32(offset))
}

// Bank returns the bank byte.
func (a Address) Bank() uint8 { return uint8(a >> 16) }

// Offset returns the 16-bit offset within the bank.
func (a Address) Offset() uint16 { return uint16(a) }

// Long returns the address as a 24-bit long pointer value.
func (a Address) Long() uint32 { return uint32(a) & 0xFFFFFF }

// String formats the address the way ROM documentation writes it, e.g. $8F:91F8.
func (a Address) String() string {
	return fmt.Sprintf("$%02X:%04X", a.Bank(), a.Offset())
}

// ToPC returns the file offset of a.
func ToPC(a Address) (int, error) {
	if bank := a.Bank(); a.Offset() < PageOffset || bank == 0x7E || bank == 0x7F {
		return 0, fmt.Errorf("%w: %s", ErrNotROM, a)
	}
	pc, err := lorom.BusAddressToPak(a.Long())
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrNotROM, a, err)
	}
	return int(pc), nil
}

// FromPC returns the FastROM bus address of a file offset.
func FromPC(pc int) Address {
	bank := uint8(pc/BankSize) | FastBank
	return New(bank, uint16(pc%BankSize+PageOffset))
}

// SameBank reports whether a 16-bit pointer into bank can address a.
func SameBank(a Address, bank uint8) bool {
	return a.Bank()&0x7F == bank&0x7F
}

// Parse reads an address written as "$8F:91F8", "8F:91F8", "0x8F91F8" or
// "8F91F8".
func Parse(s string) (Address, error) {
	t := strings.TrimPrefix(strings.TrimSpace(s), "$")
	if t2, ok := strings.CutPrefix(strings.ToLower(t), "0x"); ok {
		t = t2
	}
	if bank, off, ok := strings.Cut(t, ":"); ok {
		if len(bank) == 0 || len(bank) > 2 || len(off) != 4 {
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		if len(bank) == 1 {
			bank = "0" + bank
		}
		t = bank + off
	}
	v, err := strconv.ParseUint(t, 16, 24)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return Address(v), nil
}

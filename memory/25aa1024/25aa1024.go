// Package eeprom drives the Microchip 25AA1024 1-Mbit SPI EEPROM.
// It supports read & write with automatic page handling and status polling.
//
// Datasheet reference: Microchip 25AA1024 Serial EEPROM (Table 3-1
// Instruction Set, page size 256 bytes).
//
// The driver runs over any SPI transport; the chip is selected through the
// SelectPin passed at construction, so a GPIO expander line or a USB bridge
// line work the same as a native chip-select.
package eeprom

import (
	"context"
	"fmt"
	"time"

	"github.com/gophertribe/sensorpack"
	"github.com/gophertribe/sensorpack/spi"
)

// device constants (datasheet Table 3-1)
const (
	cmdRead  = 0x03 // READ
	cmdWrite = 0x02 // WRITE
	cmdWREN  = 0x06 // WREN (Write-Enable Latch set)
	cmdRDSR  = 0x05 // Read STATUS Register
	cmdPE    = 0x42 // Page Erase
	cmdCE    = 0xC7 // Chip Erase

	statusWIP = 0x01 // STATUS bit 0 - Write-In-Progress

	pageSize = 256    // bytes per page
	capacity = 131072 // 1 Mbit = 128 KiB total bytes

	// internal write cycle is max 6 ms per datasheet
	writeCycleTimeout = 10 * time.Millisecond
	pollInterval      = 500 * time.Microsecond
)

// EEPROM25AA1024 is bound to one adapter and chip-select line for its
// lifetime.
type EEPROM25AA1024 struct {
	adapter *spi.Adapter
	cs      sensorpack.SelectPin
}

func New(adapter *spi.Adapter, cs sensorpack.SelectPin) *EEPROM25AA1024 {
	return &EEPROM25AA1024{adapter: adapter, cs: cs}
}

func addressHeader(cmd byte, address uint32) []byte {
	// 24-bit address; only A16..A0 are used, the seven MSB are don't care
	return []byte{cmd, byte(address >> 16), byte(address >> 8), byte(address)}
}

// Read returns length bytes starting at address.
func (e *EEPROM25AA1024) Read(ctx context.Context, address uint32, length int) ([]byte, error) {
	if address+uint32(length) > capacity {
		return nil, fmt.Errorf("read out of range: %#x+%d", address, length)
	}
	// dummy bytes after the header clock the data out
	tx := append(addressHeader(cmdRead, address), make([]byte, length)...)
	rx := make([]byte, len(tx))
	err := e.adapter.WriteAndRead(ctx, e.cs, tx, rx)
	if err != nil {
		return nil, fmt.Errorf("could not read eeprom: %w", err)
	}
	return rx[4:], nil // skip the header echo
}

// Write writes data starting at address. Data is paged into 256-byte
// chunks as the device requires, polling STATUS.WIP between pages.
func (e *EEPROM25AA1024) Write(ctx context.Context, address uint32, data []byte) error {
	if address+uint32(len(data)) > capacity {
		return fmt.Errorf("write out of range: %#x+%d", address, len(data))
	}
	offset := 0
	for offset < len(data) {
		space := pageSize - int(address%pageSize)
		chunk := data[offset:]
		if len(chunk) > space {
			chunk = chunk[:space]
		}
		if err := e.pageWrite(ctx, address, chunk); err != nil {
			return err
		}
		offset += len(chunk)
		address += uint32(len(chunk))
	}
	return nil
}

// ErasePage erases the page containing address.
func (e *EEPROM25AA1024) ErasePage(ctx context.Context, address uint32) error {
	if address >= capacity {
		return fmt.Errorf("erase out of range: %#x", address)
	}
	if err := e.writeEnable(ctx); err != nil {
		return err
	}
	err := e.adapter.Write(ctx, e.cs, addressHeader(cmdPE, address))
	if err != nil {
		return fmt.Errorf("could not erase page: %w", err)
	}
	return e.waitUntilReady(ctx, writeCycleTimeout)
}

// EraseChip erases the whole device.
func (e *EEPROM25AA1024) EraseChip(ctx context.Context) error {
	if err := e.writeEnable(ctx); err != nil {
		return err
	}
	err := e.adapter.Write(ctx, e.cs, []byte{cmdCE})
	if err != nil {
		return fmt.Errorf("could not erase chip: %w", err)
	}
	// chip erase takes up to 10ms per datasheet
	return e.waitUntilReady(ctx, 20*time.Millisecond)
}

// Status returns the STATUS register contents.
func (e *EEPROM25AA1024) Status(ctx context.Context) (byte, error) {
	tx := []byte{cmdRDSR, 0x00}
	rx := make([]byte, 2)
	err := e.adapter.WriteAndRead(ctx, e.cs, tx, rx)
	if err != nil {
		return 0, fmt.Errorf("could not read status register: %w", err)
	}
	return rx[1], nil
}

func (e *EEPROM25AA1024) writeEnable(ctx context.Context) error {
	err := e.adapter.Write(ctx, e.cs, []byte{cmdWREN})
	if err != nil {
		return fmt.Errorf("could not set write-enable latch: %w", err)
	}
	return nil
}

func (e *EEPROM25AA1024) waitUntilReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		st, err := e.Status(ctx)
		if err != nil {
			return err
		}
		if st&statusWIP == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return fmt.Errorf("timeout waiting for write completion")
}

func (e *EEPROM25AA1024) pageWrite(ctx context.Context, address uint32, data []byte) error {
	if len(data) == 0 || len(data) > pageSize {
		return fmt.Errorf("invalid page size: %d", len(data))
	}
	if err := e.writeEnable(ctx); err != nil {
		return err
	}
	tx := append(addressHeader(cmdWrite, address), data...)
	if err := e.adapter.Write(ctx, e.cs, tx); err != nil {
		return fmt.Errorf("could not write page at %#x: %w", address, err)
	}
	return e.waitUntilReady(ctx, writeCycleTimeout)
}

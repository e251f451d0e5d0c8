// Package lcd provides a channel-based messaging system for HD44780 LCD displays.
//
// Example usage:
//
//	lcdMessages := make(chan lcd.Message, 4)
//	handler := lcd.NewHandler(device, lcdMessages, logger)
//	go handler.Run()
//
//	// Send messages non-blocking
//	lcd.Send(lcdMessages, "going up", "0>8>32>100")
package lcd

import (
	"errors"
	"log/slog"
	"strconv"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// Message represents a two-line LCD message.
type Message struct {
	Line1 []byte
	Line2 []byte
}

// Device is the subset of *hd44780i2c.Device the handler uses.
type Device interface {
	ClearDisplay()
	SetCursor(x, y uint8)
	Print(data []byte)
}

var _ Device = (*hd44780i2c.Device)(nil)

// Handler processes LCD messages from a channel.
type Handler struct {
	device   Device
	messages <-chan Message
	logger   *slog.Logger
	rows     int
	columns  int
}

// NewHandler creates a new 16x2 LCD message handler.
func NewHandler(device Device, messages <-chan Message, logger *slog.Logger) *Handler {
	return &Handler{
		device:   device,
		messages: messages,
		logger:   logger,
		rows:     2,
		columns:  16,
	}
}

// Run processes messages from the channel and updates the LCD.
// Run should be called in a separate goroutine.
func (h *Handler) Run() {
	for msg := range h.messages {
		h.logger.Debug("lcd:display", slog.String("line1", string(msg.Line1)))
		h.display(msg)
	}
}

// display prints msg to the LCD handler.
func (h *Handler) display(msg Message) {
	h.device.ClearDisplay()
	h.device.SetCursor(0, 0)

	// Truncate in-place, no allocation
	if len(msg.Line1) > h.columns {
		h.device.Print(msg.Line1[:h.columns])
	} else {
		h.device.Print(msg.Line1)
	}

	h.device.SetCursor(0, 1)
	if len(msg.Line2) > h.columns {
		h.device.Print(msg.Line2[:h.columns])
	} else {
		h.device.Print(msg.Line2)
	}
}

// Send queues a message without blocking. It reports false if the
// channel is full and the message was dropped.
func Send(messages chan<- Message, line1, line2 string) bool {
	select {
	case messages <- Message{Line1: []byte(line1), Line2: []byte(line2)}:
		return true
	default:
		return false
	}
}

// Addresses are the usual I2C addresses of PCF8574 LCD backpacks.
var Addresses = []uint8{0x27, 0x3F}

// Configure takes a preconfigured I2C bus and initializes the first HD44780
// LCD that acknowledges on addrs. If none does, an error is returned.
func Configure(bus drivers.I2C, addrs ...uint8) (*hd44780i2c.Device, error) {
	if len(addrs) == 0 {
		addrs = Addresses
	}
	for _, a := range addrs {
		// A write of all zeroes only clears the expander outputs.
		if err := bus.Tx(uint16(a), []byte{0}, nil); err != nil {
			continue
		}
		dev := hd44780i2c.New(bus, a)
		dev.Configure(hd44780i2c.Config{
			Width:  16,
			Height: 2,
		})
		return &dev, nil
	}
	msg := "LCD not found on addresses:"
	for _, a := range addrs {
		msg += " 0x" + strconv.FormatUint(uint64(a), 16)
	}
	return nil, errors.New(msg)
}

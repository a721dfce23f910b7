package pixels

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"go.bug.st/serial"
)

// Wire framing for the serial LED controller: magic, pixel count, RGB
// payload, CRC32 of everything before it. Little-endian throughout.
const frameMagic = 0xA5

// SerialStrip drives an LED controller attached over a serial port. The
// controller latches a frame as soon as its CRC checks out.
type SerialStrip struct {
	port serial.Port
}

// OpenSerialStrip opens the serial device at the given path and baud rate.
func OpenSerialStrip(device string, baud int) (*SerialStrip, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	return &SerialStrip{port: port}, nil
}

// Render encodes and writes one frame.
func (s *SerialStrip) Render(f Frame) error {
	if _, err := s.port.Write(MarshalFrame(f)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close closes the serial port.
func (s *SerialStrip) Close() error {
	return s.port.Close()
}

// MarshalFrame encodes a frame into its wire form.
func MarshalFrame(f Frame) []byte {
	buf := make([]byte, 0, 3+3*len(f)+4)
	buf = append(buf, frameMagic)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(f)))
	for _, p := range f {
		rgb := p.RGB()
		buf = append(buf, rgb[0], rgb[1], rgb[2])
	}
	return binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
}

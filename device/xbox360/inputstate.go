package xbox360

import (
	"encoding/binary"
	"io"
)

// InputState is one pad sample as sent by a feeder.
// Layout (little endian):
//
//	 0-3: Buttons
//	   4: LT (0-255)
//	   5: RT (0-255)
//	 6-7: LX
//	 8-9: LY
//	10-11: RX
//	12-13: RY
//	14-19: Reserved
type InputState struct {
	// Only the lower 16 bits are defined.
	Buttons uint32
	LT, RT  uint8
	// Sticks, y positive when pushed up.
	LX, LY   int16
	RX, RY   int16
	Reserved [6]byte
}

// MarshalBinary encodes the state into FrameSize bytes.
func (x *InputState) MarshalBinary() ([]byte, error) {
	b := make([]byte, FrameSize)
	binary.LittleEndian.PutUint32(b[0:4], x.Buttons)
	b[4] = x.LT
	b[5] = x.RT
	binary.LittleEndian.PutUint16(b[6:8], uint16(x.LX))
	binary.LittleEndian.PutUint16(b[8:10], uint16(x.LY))
	binary.LittleEndian.PutUint16(b[10:12], uint16(x.RX))
	binary.LittleEndian.PutUint16(b[12:14], uint16(x.RY))
	copy(b[14:20], x.Reserved[:])
	return b, nil
}

// UnmarshalBinary decodes FrameSize bytes.
func (x *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < FrameSize {
		return io.ErrUnexpectedEOF
	}
	x.Buttons = binary.LittleEndian.Uint32(data[0:4])
	x.LT = data[4]
	x.RT = data[5]
	x.LX = int16(binary.LittleEndian.Uint16(data[6:8]))
	x.LY = int16(binary.LittleEndian.Uint16(data[8:10]))
	x.RX = int16(binary.LittleEndian.Uint16(data[10:12]))
	x.RY = int16(binary.LittleEndian.Uint16(data[12:14]))
	copy(x.Reserved[:], data[14:20])
	return nil
}

// ReadFrame reads exactly one frame from r.
func ReadFrame(r io.Reader) (InputState, error) {
	var buf [FrameSize]byte
	var s InputState
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return s, err
	}
	err := s.UnmarshalBinary(buf[:])
	return s, err
}

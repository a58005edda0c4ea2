package bus

// Reg names one of the I/O registers the game touches.
type Reg uint8

const (
	PINA  Reg = iota // button inputs, active low
	PORTC            // LCD: RS bit0, E bit2, D4-D7 bits 4-7
	PORTE            // buzzer pair on bits 4 and 5
	TCCR0            // timer 0 control; any clock select starts TCNT0
	TCNT0            // timer 0 counter
)

func (r Reg) String() string {
	switch r {
	case PINA:
		return "PINA"
	case PORTC:
		return "PORTC"
	case PORTE:
		return "PORTE"
	case TCCR0:
		return "TCCR0"
	case TCNT0:
		return "TCNT0"
	}
	return "REG?"
}

// Button lines on PINA.
const (
	LineRight  byte = 1 << 0
	LineUp     byte = 1 << 1
	LineCenter byte = 1 << 2
	LineDown   byte = 1 << 3
	LineLeft   byte = 1 << 4
	LineMask   byte = 0x1F
)

// Bus is the hardware I/O boundary. Writes always succeed; there is no error
// channel to the hardware.
type Bus interface {
	Read(r Reg) byte
	Write(r Reg, v byte)
}

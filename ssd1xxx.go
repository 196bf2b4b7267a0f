package oled

// SSD1306 commands.
const (
	setLowColumn          = 0x00
	setHighColumn         = 0x10
	setMemoryMode         = 0x20
	setStartLine          = 0x40
	setContrast           = 0x81
	setChargePump         = 0x8D
	setSegmentNormal      = 0xA0
	setDisplayAllOnResume = 0xA4
	setNormalDisplay      = 0xA6
	setMultiplexRatio     = 0xA8
	setDisplayOff         = 0xAE
	setDisplayOn          = 0xAF
	setPageStart          = 0xB0
	setComScanInc         = 0xC0
	setDisplayOffset      = 0xD3
	setDisplayClockDiv    = 0xD5
	setPrecharge          = 0xD9
	setComPins            = 0xDA
	setVComDetect         = 0xDB
)

// Command arguments.
const (
	memoryModePage    = 0x02
	chargePumpEnable  = 0x14
	comPinsAlternate  = 0x12
	clockDivDefault   = 0x80
	prechargeDefault  = 0x22
	vcomDeselect077   = 0x20
	contrastDefault   = 0x7F
	displayOffsetZero = 0x00
)

// command builds a command stream transaction: a command with its arguments.
func command(cmd byte, args ...byte) []byte {
	return append([]byte{controlCommandStream, cmd}, args...)
}

// commands builds a transaction of single byte commands, each with its own control byte.
func commands(cmds ...byte) []byte {
	p := make([]byte, 0, len(cmds)*2)
	for _, cmd := range cmds {
		p = append(p, controlCommand, cmd)
	}
	return p
}

package framebuffer

// Hand-written mirror of <linux/fb.h> for the two ioctls we issue.

type bitField struct {
	Offset uint32
	Length uint32
	Right  uint32 // msb_right
}

type fixedScreenInfo struct {
	Id           [16]byte
	SmemStart    uint64
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	Xpanstep     uint16
	Ypanstep     uint16
	Ywrapstep    uint16
	pad          uint16 //nolint:unused
	LineLength   uint32
	MmioStart    uint64
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

type variableScreenInfo struct {
	Xres           uint32
	Yres           uint32
	XresVirtual    uint32
	YresVirtual    uint32
	Xoffset        uint32
	Yoffset        uint32
	Bits_per_pixel uint32
	Grayscale      uint32
	Red            bitField
	Green          bitField
	Blue           bitField
	Transp         bitField
	Nonstd         uint32
	Activate       uint32
	Height         uint32
	Width          uint32
	AccelFlags     uint32
	Pixclock       uint32
	LeftMargin     uint32
	RightMargin    uint32
	UpperMargin    uint32
	LowerMargin    uint32
	HsyncLen       uint32
	VsyncLen       uint32
	Sync           uint32
	Vmode          uint32
	Rotate         uint32
	Colorspace     uint32
	Reserved       [4]uint32
}

const (
	getVariableScreenInfo uintptr = 0x4600 // FBIOGET_VSCREENINFO
	getFixedScreenInfo    uintptr = 0x4602 // FBIOGET_FSCREENINFO
)

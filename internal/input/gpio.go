package input

import (
	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
)

const GpioSourceTag = "gpio-cdev"

// GpioSource reads four gpiochip lines as button levels.
// Pull-up wiring assumed: line low = button pressed.
type GpioSource struct {
	chip  gpio.Chiper
	lines gpio.Lineser
}

var _ Source = new(GpioSource)

func NewGpioSource(chipName string, pins [NumButtons]uint32) (*GpioSource, error) {
	chip, err := gpio.Open(chipName, GpioSourceTag)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio open chip=%s", chipName)
	}
	lines, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_INPUT, GpioSourceTag, pins[:]...)
	if err != nil {
		chip.Close()
		return nil, errors.Annotatef(err, "gpio lines=%v", pins)
	}
	return &GpioSource{chip: chip, lines: lines}, nil
}

func (self *GpioSource) String() string { return GpioSourceTag }

func (self *GpioSource) Levels() (Levels, error) {
	var ls Levels
	data, err := self.lines.Read()
	if err != nil {
		return ls, errors.Annotate(err, "gpio read")
	}
	for b := Button(0); b < NumButtons; b++ {
		ls[b] = data.Values[b] == 0 // active low
	}
	return ls, nil
}

func (self *GpioSource) Close() error {
	self.lines.Close()
	return self.chip.Close()
}

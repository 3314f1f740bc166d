package weather

import (
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// IIOSensor reads a Linux industrial-io device directory, e.g.
// /sys/bus/iio/devices/iio:device0 with a BME280 style sensor.
// Kernel units: temperature millidegree C, humidity millipercent,
// pressure kilopascal.
type IIOSensor struct {
	Root string
}

var _ Sensor = IIOSensor{}

func (self IIOSensor) Read() (Sample, error) {
	var s Sample

	t, err := readFloat(filepath.Join(self.Root, "in_temp_input"))
	if err != nil {
		return s, errors.Annotate(err, "iio temp")
	}
	s.TempC = t / 1000

	h, err := readFloat(filepath.Join(self.Root, "in_humidityrelative_input"))
	if err != nil {
		return s, errors.Annotate(err, "iio humidity")
	}
	s.Humidity = h / 1000

	p, err := readFloat(filepath.Join(self.Root, "in_pressure_input"))
	if err != nil {
		return s, errors.Annotate(err, "iio pressure")
	}
	s.PressureHPa = p * 10

	return s, nil
}

func readFloat(path string) (float64, error) {
	bs, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(bs)), 64)
}

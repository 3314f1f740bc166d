// Package weather holds the simple sequential data providers behind the
// leaf screens: onboard sensor, remote conditions, geolocation.
package weather

// Sample is one reading of the onboard sensor.
type Sample struct {
	TempC       float64
	Humidity    float64 // percent
	PressureHPa float64
}

// Conditions is the remote service's view of current weather.
type Conditions struct {
	City        string
	Temp        string
	Description string
}

// Location is an IP-based position estimate.
type Location struct {
	City string
	Lat  float64
	Lon  float64
}

type Sensor interface {
	Read() (Sample, error)
}

type Provider interface {
	Current() (Conditions, error)
}

type Locator interface {
	Locate() (Location, error)
}

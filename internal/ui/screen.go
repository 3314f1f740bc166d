package ui

type Screen uint32

const (
	ScreenLoading Screen = iota
	ScreenMenu
	ScreenLocalWeather
	ScreenApiWeather
	ScreenGeolocation
	ScreenNetworkScan
	ScreenManualSetup
	ScreenKeyboard
	ScreenConnecting
	ScreenConnResult
	ScreenAbout
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "Loading"
	case ScreenMenu:
		return "Menu"
	case ScreenLocalWeather:
		return "LocalWeather"
	case ScreenApiWeather:
		return "ApiWeather"
	case ScreenGeolocation:
		return "Geolocation"
	case ScreenNetworkScan:
		return "NetworkScan"
	case ScreenManualSetup:
		return "ManualSetup"
	case ScreenKeyboard:
		return "Keyboard"
	case ScreenConnecting:
		return "Connecting"
	case ScreenConnResult:
		return "ConnResult"
	case ScreenAbout:
		return "About"
	}
	return "invalid"
}

// leaf screens escape only to Menu
func (s Screen) leaf() bool {
	switch s {
	case ScreenLocalWeather, ScreenApiWeather, ScreenGeolocation, ScreenAbout:
		return true
	}
	return false
}

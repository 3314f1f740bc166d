package ui

type menuItem struct {
	title  string
	target Screen
}

// The menu cycles with modulo wrap, scan list and keyboard rows clamp.
var menuItems = [...]menuItem{
	{"Local weather", ScreenLocalWeather},
	{"Internet weather", ScreenApiWeather},
	{"Geolocation", ScreenGeolocation},
	{"Connect to network", ScreenNetworkScan},
	{"About", ScreenAbout},
}

func menuUp(sel int) int   { return (sel + len(menuItems) - 1) % len(menuItems) }
func menuDown(sel int) int { return (sel + 1) % len(menuItems) }

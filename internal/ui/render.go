package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
)

// render redraws the whole frame for the active screen. Called
// synchronously after every transition and on the periodic refresh, so
// dynamic fields (sensor values, elapsed time) stay current and provider
// errors are retried.
func (self *UI) render(now time.Time) {
	self.lastRender = now
	d := self.display
	_ = d.Clear()

	switch self.screen {
	case ScreenLoading:
		d.Text(0, 3, self.g.Config.UI.MsgWait)

	case ScreenMenu:
		d.Text(0, 0, "meteopod")
		for i, it := range menuItems {
			marker := "  "
			if i == self.menuSel {
				marker = "> "
			}
			d.Text(0, i+2, marker+it.title)
		}

	case ScreenLocalWeather:
		d.Text(0, 0, "Local weather")
		if s, err := self.sensor.Read(); err != nil {
			self.renderErr(err)
		} else {
			d.Text(0, 2, fmt.Sprintf("T %+.1f C", s.TempC))
			d.Text(0, 3, fmt.Sprintf("H %.0f %%", s.Humidity))
			d.Text(0, 4, fmt.Sprintf("P %.0f hPa", s.PressureHPa))
		}

	case ScreenApiWeather:
		d.Text(0, 0, "Internet weather")
		if c, err := self.weather.Current(); err != nil {
			self.renderErr(err)
		} else {
			d.Text(0, 2, c.City)
			d.Text(0, 3, c.Temp)
			d.Text(0, 4, c.Description)
		}

	case ScreenGeolocation:
		d.Text(0, 0, "Geolocation")
		if loc, err := self.locator.Locate(); err != nil {
			self.renderErr(err)
		} else {
			d.Text(0, 2, loc.City)
			d.Text(0, 3, fmt.Sprintf("lat %8.4f", loc.Lat))
			d.Text(0, 4, fmt.Sprintf("lon %8.4f", loc.Lon))
		}

	case ScreenNetworkScan:
		d.Text(0, 0, "Networks")
		const visible = 7
		start := 0
		if self.scanSel >= visible {
			start = self.scanSel - visible + 1
		}
		for i := 0; i < visible && start+i < len(self.scanResults); i++ {
			marker := "  "
			if start+i == self.scanSel {
				marker = "> "
			}
			d.Text(0, i+1, marker+self.scanResults[start+i])
		}

	case ScreenManualSetup:
		d.Text(0, 0, "Network setup")
		markName, markSecret := "  ", "  "
		if self.ed.active == fieldName {
			markName = "> "
		} else {
			markSecret = "> "
		}
		d.Text(0, 2, markName+"name   "+string(self.ed.name))
		d.Text(0, 3, markSecret+"secret "+mask(len(self.ed.secret)))
		d.Text(0, 6, "Select: edit")

	case ScreenKeyboard:
		self.renderKeyboard()

	case ScreenConnecting:
		d.Text(0, 0, "Connecting")
		d.Text(0, 2, self.conn.Credential().Name)
		d.Text(0, 3, fmt.Sprintf("%2.0fs", self.conn.Elapsed(now).Seconds()))
		d.Text(0, 6, "Back: cancel")

	case ScreenConnResult:
		if self.connOk {
			d.Text(0, 0, "Connected")
		} else {
			d.Text(0, 0, "Failed")
		}
		d.Text(0, 2, self.connMsg)
		d.Text(0, 6, "Select: menu")

	case ScreenAbout:
		self.renderAbout()
	}

	_ = d.Flush()
}

func (self *UI) renderErr(err error) {
	self.g.Log.Errorf("ui screen=%s err=%v", self.screen.String(), err)
	self.display.Text(0, 2, self.g.Config.UI.MsgError)
}

func (self *UI) renderKeyboard() {
	d := self.display
	label := "N "
	buf := string(self.ed.name)
	if self.ed.active == fieldSecret {
		label = "S "
		buf = string(self.ed.secret)
	}
	line := label + buf
	if max := d.TextSize().X; len(line) > max {
		line = line[len(line)-max:]
	}
	d.Text(0, 0, line)

	const top = 2
	for r := 0; r < kbRowCount; r++ {
		var sb strings.Builder
		for c := 0; c < kbColCount; c++ {
			sb.WriteByte(kbCharAt(r, c))
		}
		d.Text(0, top+r, sb.String())
	}
	cur := kbCharAt(self.ed.row, self.ed.col)
	d.TextInvert(self.ed.col, top+self.ed.row, string(cur))
}

// renderAbout shows version and address, plus a QR of the pod's URL when
// the link is up.
func (self *UI) renderAbout() {
	d := self.display
	addr := self.radio.LocalAddress()
	cols := d.TextSize().X
	right := cols * 2 / 3
	d.Text(right, 0, "meteopod")
	d.Text(right, 1, self.g.BuildVersion)
	if addr == "" {
		d.Text(0, 3, "offline")
		return
	}
	// what fits right of the QR, address wrapped over two rows
	if split := cols - right; len(addr) > split {
		d.Text(right, 3, addr[:split])
		d.Text(right, 4, addr[split:])
	} else {
		d.Text(right, 3, addr)
	}
	if err := d.QR(fmt.Sprintf("http://%s/", addr), false, qrcode.Low); err != nil {
		self.g.Log.Errorf("ui about qr err=%v", err)
	}
}

func mask(n int) string { return strings.Repeat("*", n) }

package ui

import (
	"time"

	"github.com/anelyubin/meteopod/internal/input"
	"github.com/anelyubin/meteopod/internal/netlink"
)

// dispatch routes this tick's edges by (screen, button, edge kind).
// Transitions happen only here and in the connection poll; every branch
// returns within the tick.
func (self *UI) dispatch(now time.Time, e edges) {
	if self.screen.leaf() {
		if e.selShort || e.bakShort {
			self.setScreen(ScreenMenu, now)
		}
		return
	}
	switch self.screen {
	case ScreenLoading:
		// boot finished before the first tick
		self.setScreen(ScreenMenu, now)

	case ScreenMenu:
		switch {
		case e.up:
			self.menuSel = menuUp(self.menuSel)
			self.render(now)
		case e.down:
			self.menuSel = menuDown(self.menuSel)
			self.render(now)
		case e.selShort:
			self.enterMenuTarget(now)
		}

	case ScreenNetworkScan:
		switch {
		case e.up:
			if self.scanSel > 0 {
				self.scanSel--
				self.render(now)
			}
		case e.down:
			if self.scanSel < len(self.scanResults)-1 {
				self.scanSel++
				self.render(now)
			}
		case e.bakShort:
			self.setScreen(ScreenMenu, now)
		case e.selShort:
			name := self.scanResults[self.scanSel]
			if name == netlink.NoNetworksSentinel {
				self.ed.active = fieldName
				self.setScreen(ScreenManualSetup, now)
				return
			}
			// pre-seed the name from the highlighted row, the secret is
			// what the user types next
			self.ed.setName(name)
			self.ed.setSecret("")
			self.ed.active = fieldSecret
			self.ed.row, self.ed.col = 0, 0
			self.setScreen(ScreenKeyboard, now)
		}

	case ScreenManualSetup:
		if self.stepConfirm(now) {
			return
		}
		switch {
		case e.up, e.down:
			if self.ed.active == fieldName {
				self.ed.active = fieldSecret
			} else {
				self.ed.active = fieldName
			}
			self.render(now)
		case e.selShort:
			self.ed.row, self.ed.col = 0, 0
			self.setScreen(ScreenKeyboard, now)
		case e.bakShort:
			self.setScreen(ScreenMenu, now)
		}

	case ScreenKeyboard:
		self.stepKeyboard(now, e)

	case ScreenConnecting:
		if e.bakShort {
			self.conn.Cancel()
		}

	case ScreenConnResult:
		if e.selShort || e.bakShort {
			self.conn.Reset()
			self.setScreen(ScreenMenu, now)
		}

	default:
		self.g.Log.Fatalf("unhandled ui screen=%s", self.screen.String())
	}
}

func (self *UI) enterMenuTarget(now time.Time) {
	target := menuItems[self.menuSel].target
	if target == ScreenNetworkScan {
		self.doScan()
	}
	self.setScreen(target, now)
}

// doScan queries the radio once on entering the scan screen. Empty
// result becomes the single sentinel row.
func (self *UI) doScan() {
	rs := self.radio.Scan()
	if len(rs) > self.scanMax {
		rs = rs[:self.scanMax]
	}
	if len(rs) == 0 {
		rs = []string{netlink.NoNetworksSentinel}
	}
	self.scanResults = rs
	self.scanSel = 0
}

// stepConfirm watches the compound Select+Back confirm shared by the
// keyboard and manual setup screens. Fires once per press episode: the
// armed flag clears on fire and sets again only on observed release.
// True while a compound episode is in progress or fired this tick, so
// the caller holds off single-button gestures.
func (self *UI) stepConfirm(now time.Time) bool {
	selDown := self.deb.IsPressed(input.ButtonSelect)
	bakDown := self.deb.IsPressed(input.ButtonBack)
	if !selDown && !bakDown {
		self.ed.confirmArmed = true
	}
	if self.deb.IsHeld(input.ButtonSelect, now, self.longPress) &&
		self.deb.IsHeld(input.ButtonBack, now, self.longPress) {
		if self.ed.confirmArmed {
			self.ed.confirmArmed = false
			self.ed.insertArmed = false
			self.ed.deleteArmed = false
			self.confirmAndConnect(now)
		}
		return true
	}
	return selDown && bakDown
}

// stepKeyboard handles the held gestures first, then cursor movement.
// Held gestures use the same once-per-episode arming as the confirm.
func (self *UI) stepKeyboard(now time.Time, e edges) {
	selDown := self.deb.IsPressed(input.ButtonSelect)
	bakDown := self.deb.IsPressed(input.ButtonBack)
	selHeld := self.deb.IsHeld(input.ButtonSelect, now, self.longPress)
	bakHeld := self.deb.IsHeld(input.ButtonBack, now, self.longPress)

	if !selDown {
		self.ed.insertArmed = true
	}
	if !bakDown {
		self.ed.deleteArmed = true
	}
	if self.stepConfirm(now) {
		return
	}
	if selHeld {
		if self.ed.insertArmed {
			self.ed.insertArmed = false
			self.ed.insert()
			self.render(now)
		}
		return
	}
	if bakHeld {
		if self.ed.deleteArmed {
			self.ed.deleteArmed = false
			self.ed.deleteLast()
			self.render(now)
		}
		return
	}

	switch {
	case e.up:
		self.ed.moveUp()
		self.render(now)
	case e.down:
		self.ed.moveDown()
		self.render(now)
	case e.selShort:
		self.ed.moveRight()
		self.render(now)
	case e.bakShort:
		self.ed.moveLeft()
		self.render(now)
	}
}

// confirmAndConnect persists both buffers and starts the association.
// Store failure is logged, not fatal: the attempt still runs.
func (self *UI) confirmAndConnect(now time.Time) {
	cred := self.ed.credential()
	if err := self.store.StoreCredential(cred); err != nil {
		self.g.Error(err, "credential store")
	}
	self.conn.Start(now, cred)
	self.setScreen(ScreenConnecting, now)
}

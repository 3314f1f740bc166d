package netlink

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/anelyubin/meteopod/log2"
)

const (
	ScanMax            = 31
	NoNetworksSentinel = "no networks found"
)

const wpaCmdTimeout = 2 * time.Second

// WpaRadio drives wpa_supplicant through the wpa_cli binary. Command
// failures are logged, never surfaced: the association either completes
// (status goes COMPLETED) or the manager times it out.
type WpaRadio struct {
	log   *log2.Log
	cli   string
	iface string
	netID string
}

var _ Radio = new(WpaRadio)

func NewWpaRadio(log *log2.Log, cli, iface string) *WpaRadio {
	if cli == "" {
		cli = "wpa_cli"
	}
	return &WpaRadio{log: log, cli: cli, iface: iface}
}

func (self *WpaRadio) BeginAssociation(name, secret string) {
	id, err := self.run("add_network")
	if err != nil {
		self.log.Errorf("wpa add_network err=%v", err)
		return
	}
	self.netID = strings.TrimSpace(id)
	self.runLogged("set_network", self.netID, "ssid", quote(name))
	if secret == "" {
		self.runLogged("set_network", self.netID, "key_mgmt", "NONE")
	} else {
		self.runLogged("set_network", self.netID, "psk", quote(secret))
	}
	self.runLogged("select_network", self.netID)
}

func (self *WpaRadio) Linked() bool {
	out, err := self.run("status")
	if err != nil {
		self.log.Errorf("wpa status err=%v", err)
		return false
	}
	return parseStatus(out)["wpa_state"] == "COMPLETED"
}

func (self *WpaRadio) LocalAddress() string {
	out, err := self.run("status")
	if err != nil {
		self.log.Errorf("wpa status err=%v", err)
		return ""
	}
	return parseStatus(out)["ip_address"]
}

func (self *WpaRadio) Abort() {
	self.runLogged("disconnect")
	if self.netID != "" {
		self.runLogged("remove_network", self.netID)
		self.netID = ""
	}
}

// Scan triggers a fresh scan and returns up to ScanMax distinct names.
// Empty result is the caller's concern (sentinel row is UI policy).
func (self *WpaRadio) Scan() []string {
	self.runLogged("scan")
	// scan results accumulate in the supplicant, a short pause is enough
	// to pick up fresh beacons without stalling the UI noticeably
	time.Sleep(500 * time.Millisecond)
	out, err := self.run("scan_results")
	if err != nil {
		self.log.Errorf("wpa scan_results err=%v", err)
		return nil
	}
	return parseScanResults(out, ScanMax)
}

func (self *WpaRadio) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), wpaCmdTimeout)
	defer cancel()
	full := append([]string{"-i", self.iface}, args...)
	out, err := exec.CommandContext(ctx, self.cli, full...).Output()
	if err != nil {
		return "", errors.Annotatef(err, "wpa_cli %s", strings.Join(args, " "))
	}
	s := string(out)
	if strings.HasPrefix(strings.TrimSpace(s), "FAIL") {
		return s, errors.Errorf("wpa_cli %s: FAIL", strings.Join(args, " "))
	}
	return s, nil
}

func (self *WpaRadio) runLogged(args ...string) {
	if _, err := self.run(args...); err != nil {
		self.log.Errorf("wpa err=%v", err)
	}
}

func quote(s string) string { return `"` + s + `"` }

func parseStatus(out string) map[string]string {
	m := make(map[string]string, 16)
	for _, line := range strings.Split(out, "\n") {
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		m[line[:eq]] = strings.TrimSpace(line[eq+1:])
	}
	return m
}

// parseScanResults extracts the ssid column of `wpa_cli scan_results`:
// bssid / frequency / signal level / flags / ssid, tab-separated, one
// header line.
func parseScanResults(out string, max int) []string {
	lines := strings.Split(out, "\n")
	names := make([]string, 0, max)
	seen := make(map[string]struct{}, max)
	for i, line := range lines {
		if i == 0 { // header
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			continue
		}
		ssid := strings.TrimSpace(fields[4])
		if ssid == "" {
			continue
		}
		if _, ok := seen[ssid]; ok {
			continue
		}
		seen[ssid] = struct{}{}
		names = append(names, ssid)
		if len(names) >= max {
			break
		}
	}
	return names
}

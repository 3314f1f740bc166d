package netlink

// FakeRadio is a scriptable Radio for tests and the simulator.
type FakeRadio struct {
	LinkedV    bool
	Addr       string
	ScanResult []string

	BeganName   string
	BeganSecret string
	BeginCount  int
	AbortCount  int
	ScanCount   int
}

var _ Radio = new(FakeRadio)

func (self *FakeRadio) BeginAssociation(name, secret string) {
	self.BeganName = name
	self.BeganSecret = secret
	self.BeginCount++
}

func (self *FakeRadio) Linked() bool         { return self.LinkedV }
func (self *FakeRadio) LocalAddress() string { return self.Addr }
func (self *FakeRadio) Abort()               { self.AbortCount++; self.LinkedV = false }

func (self *FakeRadio) Scan() []string {
	self.ScanCount++
	if len(self.ScanResult) > ScanMax {
		return self.ScanResult[:ScanMax]
	}
	return self.ScanResult
}

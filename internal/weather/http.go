package weather

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/anelyubin/meteopod/log2"
)

const DefaultFetchTimeout = 10 * time.Second

// WttrProvider fetches current conditions from a wttr.in style endpoint
// configured with the pipe format `?format=%l|%t|%C`.
type WttrProvider struct {
	log    *log2.Log
	client *http.Client
	url    string
}

var _ Provider = new(WttrProvider)

func NewWttrProvider(log *log2.Log, url string, timeout time.Duration) *WttrProvider {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &WttrProvider{
		log:    log,
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (self *WttrProvider) Current() (Conditions, error) {
	var c Conditions
	body, err := fetch(self.client, self.url)
	if err != nil {
		return c, errors.Annotate(err, "weather fetch")
	}
	parts := strings.SplitN(strings.TrimSpace(string(body)), "|", 3)
	if len(parts) != 3 {
		return c, errors.Errorf("weather parse body='%s'", string(body))
	}
	c.City = strings.TrimSpace(parts[0])
	c.Temp = strings.TrimSpace(parts[1])
	c.Description = strings.TrimSpace(parts[2])
	self.log.Debugf("weather city=%s temp=%s", c.City, c.Temp)
	return c, nil
}

// IpApiLocator estimates position from the public address, ip-api.com
// JSON schema: {"status":"success","city":...,"lat":...,"lon":...}.
type IpApiLocator struct {
	log    *log2.Log
	client *http.Client
	url    string
}

var _ Locator = new(IpApiLocator)

func NewIpApiLocator(log *log2.Log, url string, timeout time.Duration) *IpApiLocator {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &IpApiLocator{
		log:    log,
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (self *IpApiLocator) Locate() (Location, error) {
	var loc Location
	body, err := fetch(self.client, self.url)
	if err != nil {
		return loc, errors.Annotate(err, "geo fetch")
	}
	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		City    string  `json:"city"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return loc, errors.Annotatef(err, "geo parse body='%s'", string(body))
	}
	if payload.Status != "" && payload.Status != "success" {
		return loc, errors.Errorf("geo status=%s message=%s", payload.Status, payload.Message)
	}
	loc.City = payload.City
	loc.Lat = payload.Lat
	loc.Lon = payload.Lon
	return loc, nil
}

func fetch(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("http status=%s url=%s", resp.Status, url)
	}
	body, err := ioutil.ReadAll(resp.Body)
	return body, errors.Trace(err)
}

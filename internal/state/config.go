package state

import (
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"

	"github.com/anelyubin/meteopod/helpers"
	"github.com/anelyubin/meteopod/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Hardware struct {
		Buttons struct {
			PinChip    string `hcl:"pin_chip"`
			PinUp      int    `hcl:"pin_up"`
			PinDown    int    `hcl:"pin_down"`
			PinSelect  int    `hcl:"pin_select"`
			PinBack    int    `hcl:"pin_back"`
			DebounceMs int    `hcl:"debounce_ms"`
		} `hcl:"buttons"`
		Display struct {
			Framebuffer string `hcl:"framebuffer"`
			Codepage    string `hcl:"codepage"`
		} `hcl:"display"`
		Input struct {
			DevInputEvent struct {
				Enable bool   `hcl:"enable"`
				Device string `hcl:"device"`
			} `hcl:"dev_input_event"`
		}
		Radio struct {
			WpaCli            string `hcl:"wpa_cli"`
			Iface             string `hcl:"iface"`
			ConnectTimeoutSec int    `hcl:"connect_timeout_sec"`
			ScanMax           int    `hcl:"scan_max"`
		} `hcl:"radio"`
	}

	Persist struct {
		Root string `hcl:"root"`
	}

	Weather struct {
		ApiUrl     string `hcl:"api_url"`
		GeoUrl     string `hcl:"geo_url"`
		SensorRoot string `hcl:"sensor_root"`
		TimeoutSec int    `hcl:"timeout_sec"`
	}

	UI struct {
		TickMs      int    `hcl:"tick_ms"`
		RefreshMs   int    `hcl:"refresh_ms"`
		LongPressMs int    `hcl:"long_press_ms"`
		MsgError    string `hcl:"msg_error"`
		MsgWait     string `hcl:"msg_wait"`
	}

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		log.Fatalf("config duplicate source=%s", source.Name)
	} else {
		log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	}
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
			return
		}
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}

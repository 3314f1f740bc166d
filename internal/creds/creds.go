// Package creds persists the pod's network credential. Storage is a
// crash-safe extremofile pair (main+backup) holding k=v lines, so a power
// cut mid-write never loses the previous credential.
package creds

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/extremofile"

	"github.com/anelyubin/meteopod/log2"
)

const (
	KeyNetworkName = "wifi.name"
	KeySecret      = "wifi.secret"
)

const (
	MaxNameLen   = 32
	MaxSecretLen = 64
)

type Credential struct {
	Name   string
	Secret string
}

func (c Credential) IsZero() bool { return c.Name == "" && c.Secret == "" }

type Store struct {
	log   *log2.Log
	w     io.Writer
	cache map[string]string
}

// NewStore opens dir, creating it when missing. A missing or corrupt file
// yields an empty store, only unusable storage is an error.
func NewStore(log *log2.Log, dir string) (*Store, error) {
	data, w, err := extremofile.Open(dir)
	if extremofile.IsCritical(err) {
		return nil, errors.Annotatef(err, "creds dir=%s", dir)
	}
	if err != nil {
		log.Debugf("creds open dir=%s non-critical err=%v", dir, err)
	}
	self := &Store{
		log:   log,
		w:     w,
		cache: make(map[string]string, 4),
	}
	self.parse(data)
	return self, nil
}

func (self *Store) Load(key string) (string, bool) {
	v, ok := self.cache[key]
	return v, ok
}

func (self *Store) Store(key, value string) error {
	self.cache[key] = value
	return errors.Annotatef(self.flush(), "creds store key=%s", key)
}

func (self *Store) LoadCredential() Credential {
	name, _ := self.Load(KeyNetworkName)
	secret, _ := self.Load(KeySecret)
	return Credential{Name: name, Secret: secret}
}

func (self *Store) StoreCredential(c Credential) error {
	self.cache[KeyNetworkName] = c.Name
	self.cache[KeySecret] = c.Secret
	return errors.Annotate(self.flush(), "creds store credential")
}

func (self *Store) parse(data []byte) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			self.log.Errorf("creds skip malformed line=%q", line)
			continue
		}
		self.cache[line[:eq]] = line[eq+1:]
	}
}

func (self *Store) flush() error {
	keys := make([]string, 0, len(self.cache))
	for k := range self.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := strings.Builder{}
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, self.cache[k])
	}
	_, err := self.w.Write([]byte(b.String()))
	return err
}

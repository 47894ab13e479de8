// Package distconf reads configuration from an ordered list of backings.  The first backing that
// has a key wins, and variables read from a dynamic backing follow it as it changes.
package distconf

import (
	"expvar"
	"sync"

	"github.com/encoderuz/byte-calculator/dataunit"
	"github.com/encoderuz/byte-calculator/log"
)

// Config gets configuration data from the first backing that has it
type Config struct {
	Logger log.Logger

	readers []Reader

	varsMutex      sync.Mutex
	registeredVars map[string]configVariable
}

type configVariable interface {
	Update(newValue []byte) error
	// Get but on an interface return
	GenericGet() interface{}
}

type noopCloser struct {
}

func (n *noopCloser) Close() {
}

// Var returns an expvar variable that shows all the current configuration variables and their
// current value
func (c *Config) Var() expvar.Var {
	return expvar.Func(func() interface{} {
		c.varsMutex.Lock()
		defer c.varsMutex.Unlock()

		m := make(map[string]interface{})
		for name, v := range c.registeredVars {
			m[name] = v.GenericGet()
		}
		return m
	})
}

// Str object that can be referenced to get string values from a backing config
func (c *Config) Str(key string, defaultVal string) *Str {
	s := &strConf{
		defaultVal: defaultVal,
	}
	s.currentVal.Store(defaultVal)
	// Note: in race conditions 's' may not be the thing actually returned
	ret, okCast := c.register(key, s).(*strConf)
	if !okCast {
		c.logger().Log(log.Config, key, log.Msg, "Registering key with multiple types")
		return nil
	}
	return &ret.Str
}

// Size object that can be referenced to get a byte count from a backing config.  Values are
// parsed with dataunit.Parse, so "8GB" and "1073741824" both work.
func (c *Config) Size(key string, defaultVal dataunit.ByteConverter) *Size {
	s := &sizeConf{
		defaultVal: defaultVal.Bytes(),
		Size: Size{
			currentVal: defaultVal.Bytes(),
		},
	}
	ret, okCast := c.register(key, s).(*sizeConf)
	if !okCast {
		c.logger().Log(log.Config, key, log.Msg, "Registering key with multiple types")
		return nil
	}
	return &ret.Size
}

// Unit object that can be referenced to get a dataunit.Unit from a backing config
func (c *Config) Unit(key string, defaultVal dataunit.Unit) *Unit {
	s := &unitConf{
		defaultVal: defaultVal,
	}
	s.currentVal.Store(defaultVal)
	ret, okCast := c.register(key, s).(*unitConf)
	if !okCast {
		c.logger().Log(log.Config, key, log.Msg, "Registering key with multiple types")
		return nil
	}
	return &ret.Unit
}

// Close this config framework's readers.  Config variable results are undefined after this call.
// Must not hold varsMutex: closing a watched backing waits on callbacks that lock it.
func (c *Config) Close() {
	for _, backing := range c.readers {
		backing.Close()
	}
}

func (c *Config) logger() log.Logger {
	if c.Logger == nil {
		return log.Discard
	}
	return c.Logger
}

func (c *Config) register(key string, configVariable configVariable) configVariable {
	c.varsMutex.Lock()
	defer c.varsMutex.Unlock()
	existing, exists := c.registeredVars[key]
	if exists {
		c.refresh(key, existing)
		return existing
	}
	dynamicOnPath := c.refresh(key, configVariable)
	if dynamicOnPath {
		c.watch(key, configVariable)
	}
	c.registeredVars[key] = configVariable
	return configVariable
}

func (c *Config) refresh(key string, configVar configVariable) bool {
	dynamicReadersOnPath := false
	for _, backing := range c.readers {
		if !dynamicReadersOnPath {
			if _, ok := backing.(Dynamic); ok {
				dynamicReadersOnPath = true
			}
		}

		v, e := backing.Get(key)
		if e != nil {
			c.logger().Log(log.Config, key, log.Err, e, log.Msg, "Unable to read from backing")
			continue
		}
		if v != nil {
			if e = configVar.Update(v); e != nil {
				c.logger().Log(log.Config, key, log.Err, e, log.Msg, "Invalid config bytes")
			}
			return dynamicReadersOnPath
		}
	}

	if e := configVar.Update(nil); e != nil {
		c.logger().Log(log.Config, key, log.Err, e, log.Msg, "Unable to set bytes to nil/clear")
	}

	// If this is false, then the variable is fixed and can never change
	return dynamicReadersOnPath
}

func (c *Config) watch(key string, configVar configVariable) {
	for _, backing := range c.readers {
		if d, ok := backing.(Dynamic); ok {
			if err := d.Watch(key, c.onBackingChange); err != nil {
				c.logger().Log(log.Config, key, log.Err, err, log.Msg, "Unable to watch for config var")
			}
		}
	}
}

func (c *Config) onBackingChange(key string) {
	c.varsMutex.Lock()
	m, exists := c.registeredVars[key]
	c.varsMutex.Unlock()
	if !exists {
		c.logger().Log(log.Config, key, log.Msg, "Backing callback on variable that doesn't exist")
		return
	}
	c.refresh(key, m)
}

// Reader can get a []byte value for a config key.  A nil value means the key is not set.
type Reader interface {
	Get(key string) ([]byte, error)
	Close()
}

// Writer can modify Config properties
type Writer interface {
	Write(key string, value []byte) error
}

type backingCallbackFunction func(string)

// A Dynamic config can change what it thinks a value is over time.
type Dynamic interface {
	Watch(key string, callback backingCallbackFunction) error
}

// A ReaderWriter can both read and write configuration information
type ReaderWriter interface {
	Reader
	Writer
}

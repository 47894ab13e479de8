package distconf

import (
	"sync"
	"sync/atomic"

	"github.com/encoderuz/byte-calculator/dataunit"
)

// Str is a string config variable
type Str struct {
	mutex      sync.Mutex
	watches    []StrWatch
	currentVal atomic.Value
}

// StrWatch is called with the previous value when a Str changes
type StrWatch func(str *Str, oldValue string)

// Get the current value
func (s *Str) Get() string {
	return s.currentVal.Load().(string)
}

// Watch for changes to this variable
func (s *Str) Watch(watch StrWatch) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.watches = append(s.watches, watch)
}

func (s *Str) notify(oldValue string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, w := range s.watches {
		w(s, oldValue)
	}
}

type strConf struct {
	Str
	defaultVal string
}

func (s *strConf) Update(newValue []byte) error {
	oldValue := s.Get()
	if newValue == nil {
		s.currentVal.Store(s.defaultVal)
	} else {
		s.currentVal.Store(string(newValue))
	}
	if oldValue != s.Get() {
		s.notify(oldValue)
	}
	return nil
}

func (s *strConf) GenericGet() interface{} {
	return s.Get()
}

// Size is a byte count config variable
type Size struct {
	mutex      sync.Mutex
	watches    []SizeWatch
	currentVal uint64
}

// SizeWatch is called with the previous value when a Size changes
type SizeWatch func(size *Size, oldValue dataunit.ByteConverter)

// Get the current value
func (s *Size) Get() dataunit.ByteConverter {
	return dataunit.New(atomic.LoadUint64(&s.currentVal))
}

// Watch for changes to this variable
func (s *Size) Watch(watch SizeWatch) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.watches = append(s.watches, watch)
}

func (s *Size) notify(oldValue dataunit.ByteConverter) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, w := range s.watches {
		w(s, oldValue)
	}
}

type sizeConf struct {
	Size
	defaultVal uint64
}

// Update keeps the current value when newValue cannot be parsed
func (s *sizeConf) Update(newValue []byte) error {
	oldValue := s.Get()
	if newValue == nil {
		atomic.StoreUint64(&s.currentVal, s.defaultVal)
	} else {
		parsed, err := dataunit.Parse(string(newValue))
		if err != nil {
			return err
		}
		atomic.StoreUint64(&s.currentVal, parsed.Bytes())
	}
	if oldValue != s.Get() {
		s.notify(oldValue)
	}
	return nil
}

func (s *sizeConf) GenericGet() interface{} {
	return s.Get().Bytes()
}

// Unit is a dataunit.Unit config variable
type Unit struct {
	mutex      sync.Mutex
	watches    []UnitWatch
	currentVal atomic.Value
}

// UnitWatch is called with the previous value when a Unit changes
type UnitWatch func(unit *Unit, oldValue dataunit.Unit)

// Get the current value
func (u *Unit) Get() dataunit.Unit {
	return u.currentVal.Load().(dataunit.Unit)
}

// Watch for changes to this variable
func (u *Unit) Watch(watch UnitWatch) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.watches = append(u.watches, watch)
}

func (u *Unit) notify(oldValue dataunit.Unit) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	for _, w := range u.watches {
		w(u, oldValue)
	}
}

type unitConf struct {
	Unit
	defaultVal dataunit.Unit
}

// Update keeps the current value when newValue is not a known unit
func (u *unitConf) Update(newValue []byte) error {
	oldValue := u.Get()
	if newValue == nil {
		u.currentVal.Store(u.defaultVal)
	} else {
		parsed, err := dataunit.ParseUnit(string(newValue))
		if err != nil {
			return err
		}
		u.currentVal.Store(parsed)
	}
	if oldValue != u.Get() {
		u.notify(oldValue)
	}
	return nil
}

func (u *unitConf) GenericGet() interface{} {
	return string(u.Get())
}

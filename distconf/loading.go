package distconf

import "github.com/encoderuz/byte-calculator/log"

// A BackingLoader should run a single time and get a Reader for Config
type BackingLoader interface {
	Get() (Reader, error)
}

// BackingLoaderFunc can wrap a function to turn it into a BackingLoader
type BackingLoaderFunc func() (Reader, error)

// Get a Reader for Config, or an error if the Reader cannot be loaded
func (f BackingLoaderFunc) Get() (Reader, error) {
	return f()
}

// FromLoaders creates a Config from an array of loaders, only using loaders that don't load with
// error.  Loader failures and later config problems are logged to logger, which may be nil.
func FromLoaders(logger log.Logger, loaders []BackingLoader) *Config {
	if logger == nil {
		logger = log.Discard
	}
	readers := make([]Reader, 0, len(loaders))
	for _, l := range loaders {
		r, err := l.Get()
		if err != nil {
			logger.Log(log.Err, err, log.Msg, "Unable to load reader")
			continue
		}
		readers = append(readers, r)
	}
	return FromReaders(logger, readers)
}

// FromReaders creates a Config from the list of config values readers
func FromReaders(logger log.Logger, readers []Reader) *Config {
	return &Config{
		Logger:         logger,
		readers:        readers,
		registeredVars: make(map[string]configVariable),
	}
}

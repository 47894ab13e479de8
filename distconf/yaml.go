package distconf

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/encoderuz/byte-calculator/log"
	"github.com/fsnotify/fsnotify"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// yamlCallbackMap manages callbacks for YAML config keys.
type yamlCallbackMap struct {
	mu        sync.Mutex
	callbacks map[string][]backingCallbackFunction
}

func (c *yamlCallbackMap) add(key string, val backingCallbackFunction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks[key] = append(c.callbacks[key], val)
}

func (c *yamlCallbackMap) copy() map[string][]backingCallbackFunction {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := make(map[string][]backingCallbackFunction, len(c.callbacks))
	for k, v := range c.callbacks {
		ret[k] = append([]backingCallbackFunction{}, v...)
	}
	return ret
}

// yamlFileDisco reads keys from a YAML file and follows edits to it.  Each reload parses the file
// into a fresh snapshot that replaces values under mu, so readers never see a half read file.
type yamlFileDisco struct {
	filename  string
	logger    log.Logger
	callbacks yamlCallbackMap

	mu     sync.RWMutex
	values map[string]string

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// Get the value for key.  Nested keys use "." as in "size.limit", and keys are case insensitive.
func (y *yamlFileDisco) Get(key string) ([]byte, error) {
	y.mu.RLock()
	defer y.mu.RUnlock()
	v, exists := y.values[strings.ToLower(key)]
	if !exists {
		return nil, nil
	}
	return []byte(v), nil
}

// Watch registers a callback that fires whenever the file changes
func (y *yamlFileDisco) Watch(key string, callback backingCallbackFunction) error {
	y.callbacks.add(key, callback)
	return nil
}

// Close stops watching the file.  Get keeps returning the last values read.
func (y *yamlFileDisco) Close() {
	y.closeOnce.Do(func() {
		log.IfErr(y.logger, y.watcher.Close())
		<-y.done
	})
}

func (y *yamlFileDisco) watch() {
	defer close(y.done)
	for {
		select {
		case e, ok := <-y.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) == y.filename && e.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				y.reload()
			}
		case err, ok := <-y.watcher.Errors:
			if !ok {
				return
			}
			log.IfErr(y.logger, err)
		}
	}
}

// reload swaps in a new snapshot of the file, then tells every watcher
func (y *yamlFileDisco) reload() {
	values, err := readYaml(y.filename)
	if err != nil {
		log.IfErr(log.NewContext(y.logger).With(log.Path, y.filename), err)
		return
	}
	y.mu.Lock()
	y.values = values
	y.mu.Unlock()

	y.logger.Log(log.Path, y.filename, log.Msg, "Configuration file changed")
	// Callbacks call Get, so run them on a copy
	for key, callbacks := range y.callbacks.copy() {
		for _, c := range callbacks {
			c(key)
		}
	}
}

// readYaml flattens every leaf of the file into a "parent.child" keyed map
func readYaml(filename string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Annotatef(err, "Unable to open file %s", filename)
	}
	keys := v.AllKeys()
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		values[k] = v.GetString(k)
	}
	return values, nil
}

// Yaml creates a backing config reader that reads properties from a YAML file and watches the
// file for changes until Close.  Reload problems are logged to logger, which may be nil.
func Yaml(filename string, logger log.Logger) (Reader, error) {
	if logger == nil {
		logger = log.Discard
	}
	filename = filepath.Clean(filename)
	values, err := readYaml(filename)
	if err != nil {
		return nil, err
	}
	// Watch the directory so editors that replace the file are still followed
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Annotate(err, "cannot create file watcher")
	}
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		log.IfErr(logger, watcher.Close())
		return nil, errors.Annotatef(err, "cannot watch %s", filename)
	}

	yamlDisco := &yamlFileDisco{
		filename: filename,
		logger:   logger,
		callbacks: yamlCallbackMap{
			callbacks: make(map[string][]backingCallbackFunction),
		},
		values:  values,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go yamlDisco.watch()
	return yamlDisco, nil
}

// YamlLoader is a helper for loading from YAML files
func YamlLoader(filename string, logger log.Logger) BackingLoader {
	return BackingLoaderFunc(func() (Reader, error) {
		return Yaml(filename, logger)
	})
}

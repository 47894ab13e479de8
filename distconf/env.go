package distconf

import (
	"os"
	"strings"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

type envConfig struct {
	noopCloser
	prefix string
	lookup func(string) (string, bool)
}

// Env creates a backing that reads the process environment.  Keys are upper cased, have "." and
// "-" replaced with "_" and are then prefixed with prefix, so with prefix "BYTECALC_" the key
// "default.unit" reads BYTECALC_DEFAULT_UNIT.  Empty variables count as set.
func Env(prefix string) Reader {
	return &envConfig{
		prefix: prefix,
		lookup: os.LookupEnv,
	}
}

// EnvLoader is a helper for loading from the environment
func EnvLoader(prefix string) BackingLoader {
	return BackingLoaderFunc(func() (Reader, error) {
		return Env(prefix), nil
	})
}

func (e *envConfig) Get(key string) ([]byte, error) {
	val, exists := e.lookup(e.prefix + strings.ToUpper(envKeyReplacer.Replace(key)))
	if !exists {
		return nil, nil
	}
	return []byte(val), nil
}

package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/encoderuz/byte-calculator/dataunit"
	"github.com/encoderuz/byte-calculator/distconf"
	"github.com/encoderuz/byte-calculator/hostsize"
	"github.com/encoderuz/byte-calculator/log"
	kitlog "github.com/go-kit/kit/log"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

const envPrefix = "BYTECALC_"

// cli holds what every subcommand needs once flags and config are loaded
type cli struct {
	out    log.Logger
	errLog *log.Context
	// quiet closes errGate
	errGate      *log.Gate
	failedWrites log.Counter

	configFile string
	unitFlag   string
	quiet      bool
	conf       *distconf.Config
	unit       *distconf.Unit
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	c := &cli{
		errGate: &log.Gate{Logger: log.NewLogfmtLogger(stderr, log.Discard)},
	}
	c.errLog = log.NewContext(c.errGate).With(log.Location, log.DefaultCaller).WithPrefix(log.Time, log.DefaultTimestampUTC)
	out := log.FromGokit(kitlog.NewLogfmtLogger(stdout))
	out.ErrHandler = log.ErrorHandlerFunc(func(err error) log.Logger {
		return log.MultiLogger{&c.failedWrites, c.errLog.With(log.Err, err)}
	})
	c.out = out

	root := &cobra.Command{
		Use:           "bytecalc",
		Short:         "Convert byte counts to and from binary units",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.quiet {
				c.errGate.Disable()
			}
			return c.loadConfig()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "YAML file with a default unit")
	root.PersistentFlags().StringVar(&c.unitFlag, "unit", "", "only print this unit (KB, MB, GB or TB); defaults to $"+envPrefix+"UNIT")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "do not log diagnostics to stderr")

	root.AddCommand(c.bytesCmd(), c.terabytesCmd(), c.hostCmd(), c.configCmd())
	return root
}

func (c *cli) loadConfig() error {
	loaders := []distconf.BackingLoader{distconf.EnvLoader(envPrefix)}
	if c.configFile != "" {
		r, err := distconf.Yaml(c.configFile, c.errLog)
		if err != nil {
			return c.fail(err)
		}
		loaders = append(loaders, distconf.BackingLoaderFunc(func() (distconf.Reader, error) {
			return r, nil
		}))
	}
	c.conf = distconf.FromLoaders(c.errLog, loaders)
	c.unit = c.conf.Unit("unit", "")
	return nil
}

// runE closes the config once f returns and fails the command if f, or any line f printed, failed
func (c *cli) runE(f func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer c.conf.Close()
		if err := f(cmd, args); err != nil {
			return c.fail(err)
		}
		if n := atomic.LoadInt64(&c.failedWrites.Count); n > 0 {
			return c.fail(errors.Errorf("cannot write %d output lines", n))
		}
		return nil
	}
}

// units returns the units to print, narrowed by --unit or the configured default
func (c *cli) units() ([]dataunit.Unit, error) {
	if c.unitFlag != "" {
		u, err := dataunit.ParseUnit(c.unitFlag)
		if err != nil {
			return nil, err
		}
		return []dataunit.Unit{u}, nil
	}
	if u := c.unit.Get(); u != "" {
		return []dataunit.Unit{u}, nil
	}
	return []dataunit.Unit{dataunit.Kilobyte, dataunit.Megabyte, dataunit.Gigabyte, dataunit.Terabyte}, nil
}

func (c *cli) fail(err error) error {
	c.errLog.Log(log.Err, err, log.Msg, "bytecalc failed")
	return err
}

func (c *cli) bytesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "bytes SIZE",
		Short:   "Print SIZE (a byte count, or a size such as 8GB) in KB, MB, GB and TB",
		Args:    cobra.ExactArgs(1),
		Example: "  bytecalc bytes 8589934592\n  bytecalc bytes 1.5TB --unit GB",
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			size, err := dataunit.Parse(args[0])
			if err != nil {
				return err
			}
			units, err := c.units()
			if err != nil {
				return err
			}
			for _, u := range units {
				v, err := size.In(u)
				if err != nil {
					return err
				}
				c.out.Log(append(log.Sized(size), log.Converted(v)...)...)
			}
			return nil
		}),
	}
}

func (c *cli) terabytesCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "tb TERABYTES",
		Short: "Print the byte count of TERABYTES",
		Args:  cobra.ExactArgs(1),
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			tb, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.NewNotValid(err, "terabytes")
			}
			size := dataunit.FromTerabytes(tb)
			if strict {
				if size, err = dataunit.FromTerabytesChecked(tb); err != nil {
					return err
				}
			}
			c.out.Log(append(log.Sized(size), log.Converted(dataunit.Value{Value: tb, Unit: dataunit.Terabyte})...)...)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject negative, NaN and overflowing input instead of clamping")
	return cmd
}

func (c *cli) hostCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Print host memory and disk capacity in KB",
		Args:  cobra.NoArgs,
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			m, err := hostsize.GetMemory()
			if err != nil {
				return err
			}
			c.out.Log(sortedKeyvals(m.ToStringMap())...)
			d, err := hostsize.GetDisk(path)
			if err != nil {
				return err
			}
			c.out.Log(sortedKeyvals(d.ToStringMap())...)
			return nil
		}),
	}
	cmd.Flags().StringVar(&path, "path", "/", "path on the filesystem to report")
	return cmd
}

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the configuration variables in use, and their values, as JSON",
		Args:  cobra.NoArgs,
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), c.conf.Var().String())
			return errors.Annotate(err, "cannot write config")
		}),
	}
}

func sortedKeyvals(m map[string]string) []interface{} {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ret := make([]interface{}, 0, 2*len(m))
	for _, k := range keys {
		ret = append(ret, k, m[k])
	}
	return ret
}

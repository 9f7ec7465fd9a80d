// Package config resolves the run configuration.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults (Default)
//  2. a dotenv file, ".env" unless CARPRICE_ENV_FILE names another
//  3. CARPRICE_* environment variables
//  4. command-line flags
package config

import (
	"flag"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ezoic/carprice/pkg/errors"
)

// Environment variable names.
const (
	EnvFile        = "CARPRICE_ENV_FILE"
	EnvDataPath    = "CARPRICE_DATA_PATH"
	EnvFiguresDir  = "CARPRICE_FIGURES_DIR"
	EnvTestSize    = "CARPRICE_TEST_SIZE"
	EnvRandomState = "CARPRICE_RANDOM_STATE"
	EnvNEstimators = "CARPRICE_N_ESTIMATORS"
	EnvNJobs       = "CARPRICE_N_JOBS"
	EnvHeadRows    = "CARPRICE_HEAD_ROWS"
	EnvLogLevel    = "CARPRICE_LOG_LEVEL"
	EnvPlots       = "CARPRICE_PLOTS"
	EnvExample     = "CARPRICE_EXAMPLE"
)

// Config holds everything a run needs.
type Config struct {
	DataPath    string
	FiguresDir  string
	TestSize    float64
	RandomState uint64
	NEstimators int
	// NJobs <= 0 uses every CPU.
	NJobs    int
	HeadRows int
	LogLevel string
	Plots    bool
	// Example is the raw feature row scored after training, in
	// Year, Present_Price, Driven_kms, Fuel_Type, Selling_type,
	// Transmission, Owner order.
	Example []float64
}

// DefaultExample is a 2017 diesel manual car sold by a dealer.
var DefaultExample = []float64{2017, 9.29, 37000, 1, 0, 1, 0}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataPath:    "car data.csv",
		FiguresDir:  "figures",
		TestSize:    0.2,
		RandomState: 42,
		NEstimators: 100,
		NJobs:       1,
		HeadRows:    5,
		LogLevel:    "info",
		Plots:       true,
		Example:     append([]float64(nil), DefaultExample...),
	}
}

// Load resolves the configuration from the dotenv file, the process
// environment and args (without the program name).
func Load(args []string) (Config, error) {
	return load(args, os.LookupEnv)
}

func load(args []string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()

	envFile := ".env"
	if v, ok := lookupEnv(EnvFile); ok && v != "" {
		envFile = v
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, errors.Wrapf(err, "read env file %q", envFile)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}

	fset := flag.NewFlagSet("carprice", flag.ContinueOnError)
	cfg.RegisterFlags(fset)
	if err := fset.Parse(args); err != nil {
		return cfg, errors.Wrap(err, "parse flags")
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataPath); ok {
		c.DataPath = v
	}
	if v, ok := lookup(EnvFiguresDir); ok {
		c.FiguresDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}

	var err error
	if v, ok := lookup(EnvTestSize); ok {
		if c.TestSize, err = strconv.ParseFloat(v, 64); err != nil {
			return envError(EnvTestSize, v, err)
		}
	}
	if v, ok := lookup(EnvRandomState); ok {
		if c.RandomState, err = strconv.ParseUint(v, 10, 64); err != nil {
			return envError(EnvRandomState, v, err)
		}
	}
	if v, ok := lookup(EnvNEstimators); ok {
		if c.NEstimators, err = strconv.Atoi(v); err != nil {
			return envError(EnvNEstimators, v, err)
		}
	}
	if v, ok := lookup(EnvNJobs); ok {
		if c.NJobs, err = strconv.Atoi(v); err != nil {
			return envError(EnvNJobs, v, err)
		}
	}
	if v, ok := lookup(EnvHeadRows); ok {
		if c.HeadRows, err = strconv.Atoi(v); err != nil {
			return envError(EnvHeadRows, v, err)
		}
	}
	if v, ok := lookup(EnvPlots); ok {
		if c.Plots, err = strconv.ParseBool(v); err != nil {
			return envError(EnvPlots, v, err)
		}
	}
	if v, ok := lookup(EnvExample); ok {
		if c.Example, err = parseRow(v); err != nil {
			return envError(EnvExample, v, err)
		}
	}
	return nil
}

func envError(key, value string, err error) error {
	return errors.Wrapf(err, "invalid %s=%q", key, value)
}

// RegisterFlags binds the configuration fields to fs, using the current
// values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataPath, "data", c.DataPath, "path to the listings CSV")
	fs.StringVar(&c.FiguresDir, "figures", c.FiguresDir, "directory for PNG figures")
	fs.Float64Var(&c.TestSize, "test-size", c.TestSize, "fraction of rows held out for testing")
	fs.Uint64Var(&c.RandomState, "seed", c.RandomState, "seed for the split and the forest")
	fs.IntVar(&c.NEstimators, "trees", c.NEstimators, "number of trees in the forest")
	fs.IntVar(&c.NJobs, "jobs", c.NJobs, "goroutines fitting trees (<=0: all CPUs)")
	fs.IntVar(&c.HeadRows, "head", c.HeadRows, "rows of the dataset to print")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolFunc("no-plots", "skip rendering figures", func(v string) error {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Plots = !skip
		return nil
	})
	fs.Var((*rowValue)(&c.Example), "example", "comma-separated feature row to price")
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.NewValidationError("data_path", "must not be empty", c.DataPath)
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return errors.NewValidationError("test_size", "must be in (0, 1)", c.TestSize)
	}
	if c.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", c.NEstimators)
	}
	if c.HeadRows < 0 {
		return errors.NewValidationError("head_rows", "must not be negative", c.HeadRows)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		return errors.NewValidationError("log_level", "unknown level", c.LogLevel)
	}
	if c.Plots && strings.TrimSpace(c.FiguresDir) == "" {
		return errors.NewValidationError("figures_dir", "must not be empty when plots are enabled", c.FiguresDir)
	}
	if len(c.Example) == 0 {
		return errors.NewValidationError("example", "must not be empty", c.Example)
	}
	return nil
}

// rowValue parses "2017,9.29,37000" style rows.
type rowValue []float64

func (r *rowValue) String() string {
	if r == nil {
		return ""
	}
	parts := make([]string, len(*r))
	for i, v := range *r {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (r *rowValue) Set(s string) error {
	row, err := parseRow(s)
	if err != nil {
		return err
	}
	*r = row
	return nil
}

func parseRow(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	row := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i)
		}
		row = append(row, v)
	}
	return row, nil
}

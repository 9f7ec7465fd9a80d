// Package log provides structured logging for estimators and pipeline stages.
//
// Logging is backed by github.com/rs/zerolog. Components obtain a named
// Logger from a LoggerProvider and emit key/value pairs:
//
//	logger := log.GetLoggerWithName("ensemble").With(log.ModelNameKey, "RandomForestRegressor")
//	logger.Info("Training started", log.SamplesKey, 240, log.FeaturesKey, 7)
//
// All output goes to stderr; stdout is left to the program's own report.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Common field keys.
const (
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	DurationMsKey = "duration_ms"
	ModelNameKey  = "model"
	ComponentKey  = "component"
	RunIDKey      = "run_id"
	PredsKey      = "preds"
	PathKey       = "path"
)

// Common field values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationLoad      = "load"
	OperationEvaluate  = "evaluate"
	OperationRender    = "render"

	PhaseLoading       = "loading"
	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhaseEvaluation    = "evaluation"
)

// Logger is the structured logging interface used throughout the module.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	// Error logs at error level. If the first field is an error it is
	// attached as the "error" field.
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider hands out named loggers sharing one output and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level zerolog.Level)
}

// ToLogLevel parses a level name, defaulting to info.
func ToLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ZerologProvider is a LoggerProvider writing through zerolog.
type ZerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider creates a provider that writes human-readable lines to stderr.
func NewZerologProvider(level zerolog.Level) *ZerologProvider {
	return NewZerologProviderWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

// NewZerologProviderWithWriter creates a provider writing to w.
func NewZerologProviderWithWriter(w io.Writer, level zerolog.Level) *ZerologProvider {
	return &ZerologProvider{
		base: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// GetLogger returns the unnamed logger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologAdapter{l: p.base}
}

// GetLoggerWithName returns a logger tagged with the component name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologAdapter{l: p.base.With().Str("logger", name).Logger()}
}

// SetLevel changes the minimum level for loggers obtained afterwards.
func (p *ZerologProvider) SetLevel(level zerolog.Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(level)
}

// Zerolog exposes the underlying zerolog logger.
func (p *ZerologProvider) Zerolog() *zerolog.Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	l := p.base
	return &l
}

type zerologAdapter struct {
	l zerolog.Logger
}

func (a *zerologAdapter) Debug(msg string, fields ...interface{}) {
	a.emit(a.l.Debug(), msg, fields)
}

func (a *zerologAdapter) Info(msg string, fields ...interface{}) {
	a.emit(a.l.Info(), msg, fields)
}

func (a *zerologAdapter) Warn(msg string, fields ...interface{}) {
	a.emit(a.l.Warn(), msg, fields)
}

func (a *zerologAdapter) Error(msg string, fields ...interface{}) {
	ev := a.l.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			fields = fields[1:]
		}
	}
	a.emit(ev, msg, fields)
}

func (a *zerologAdapter) With(fields ...interface{}) Logger {
	return &zerologAdapter{l: a.l.With().Fields(pairs(fields)).Logger()}
}

func (a *zerologAdapter) emit(ev *zerolog.Event, msg string, fields []interface{}) {
	if ev == nil {
		return
	}
	ev.Fields(pairs(fields)).Msg(msg)
}

// pairs turns alternating key/value arguments into a field map.
// A trailing key without a value is logged under "!BADKEY".
func pairs(fields []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		if i+1 >= len(fields) {
			m["!BADKEY"] = key
			break
		}
		m[key] = fields[i+1]
	}
	return m
}

var (
	globalMu       sync.RWMutex
	globalProvider = NewZerologProvider(zerolog.InfoLevel)
)

// SetupLogger replaces the global provider with one at the given level.
func SetupLogger(level string) {
	SetProvider(NewZerologProvider(ToLogLevel(level)))
}

// SetProvider installs p as the global provider.
func SetProvider(p *ZerologProvider) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalProvider = p
}

// Provider returns the global provider.
func Provider() *ZerologProvider {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalProvider
}

// GetLogger returns the raw global zerolog logger for event-style logging.
func GetLogger() *zerolog.Logger {
	return Provider().Zerolog()
}

// GetLoggerWithName returns a named logger from the global provider.
func GetLoggerWithName(name string) Logger {
	return Provider().GetLoggerWithName(name)
}

// LogError logs err with its stack trace at error level.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	GetLogger().Error().Err(err).Str("stack", fmt.Sprintf("%+v", err)).Msg(msg)
}

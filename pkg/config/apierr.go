package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/milan604/http-errors/pkg/apierr"
	"github.com/milan604/http-errors/pkg/logger"
	"github.com/milan604/http-errors/pkg/observability"
	"github.com/milan604/http-errors/pkg/validator"
)

// Keys read by Normalizer and LoggerOptions.
const (
	KeyAPIErrDefaults      = "apierr.defaults"
	KeyAPIErrStatusTexts   = "apierr.status_texts"
	KeyAPIErrErrnoMessages = "apierr.errno_messages"
	KeyLog                 = "log"
	KeyTracing             = "tracing"
)

type statusText struct {
	Code int    `json:"code" validate:"gte=100,lte=999"`
	Text string `json:"text" validate:"required"`
}

type errnoMessage struct {
	Errno   int    `json:"errno" validate:"gte=10000,lte=99999"`
	Message string `json:"message" validate:"required"`
}

// Normalizer builds an apierr.Normalizer from the apierr.* keys. Registry
// entries extend the built-in tables. opts are applied after the
// configured values.
//
//	apierr:
//	  defaults: {errno: 40000, status: 400, message: UnknownError, request_id_length: 16}
//	  status_texts: {"499": "Client Closed Request"}
//	  errno_messages: {"40401": "User Not Found"}
func (c *Config) Normalizer(opts ...apierr.Option) (*apierr.Normalizer, error) {
	vi := validator.New()

	var d apierr.Defaults
	if c.IsSet(KeyAPIErrDefaults) {
		if err := c.UnmarshalKey(KeyAPIErrDefaults, &d); err != nil {
			return nil, fmt.Errorf("config: %s: %w", KeyAPIErrDefaults, err)
		}
		if ae := vi.Struct(d); ae != nil {
			return nil, fmt.Errorf("config: %s: %w", KeyAPIErrDefaults, ae)
		}
	}

	statusOverrides, err := c.intMap(KeyAPIErrStatusTexts)
	if err != nil {
		return nil, err
	}
	for _, code := range sortedKeys(statusOverrides) {
		if ae := vi.Struct(statusText{Code: code, Text: statusOverrides[code]}); ae != nil {
			return nil, fmt.Errorf("config: %s[%d]: %w", KeyAPIErrStatusTexts, code, ae)
		}
	}
	statuses := apierr.DefaultStatusRegistry().Extend(statusOverrides)

	errnoOverrides, err := c.intMap(KeyAPIErrErrnoMessages)
	if err != nil {
		return nil, err
	}
	for _, errno := range sortedKeys(errnoOverrides) {
		if ae := vi.Struct(errnoMessage{Errno: errno, Message: errnoOverrides[errno]}); ae != nil {
			return nil, fmt.Errorf("config: %s[%d]: %w", KeyAPIErrErrnoMessages, errno, ae)
		}
		if !statuses.Has(errno / 100) {
			return nil, fmt.Errorf("config: %s[%d]: status prefix %d is not registered", KeyAPIErrErrnoMessages, errno, errno/100)
		}
	}
	errnos := apierr.DefaultErrnoRegistry().Extend(errnoOverrides)

	base := []apierr.Option{
		apierr.WithStatusRegistry(statuses),
		apierr.WithErrnoRegistry(errnos),
		apierr.WithDefaults(d),
	}
	return apierr.NewNormalizer(append(base, opts...)...), nil
}

// LoggerOptions decodes the log.* keys.
func (c *Config) LoggerOptions() (logger.LoggerOptions, error) {
	opts := logger.LoggerOptions{Level: "info", Encoding: "console"}
	if !c.IsSet(KeyLog) {
		return opts, nil
	}
	if err := c.UnmarshalKey(KeyLog, &opts); err != nil {
		return opts, fmt.Errorf("config: %s: %w", KeyLog, err)
	}
	return opts, nil
}

// TracingOptions decodes the tracing.* keys.
func (c *Config) TracingOptions() (observability.Options, error) {
	var opts observability.Options
	if !c.IsSet(KeyTracing) {
		return opts, nil
	}
	if err := c.UnmarshalKey(KeyTracing, &opts); err != nil {
		return opts, fmt.Errorf("config: %s: %w", KeyTracing, err)
	}
	if ae := validator.New().Struct(opts); ae != nil {
		return opts, fmt.Errorf("config: %s: %w", KeyTracing, ae)
	}
	return opts, nil
}

func (c *Config) intMap(key string) (map[int]string, error) {
	raw := c.GetStringMapString(key)
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("config: %s: key %q is not a number", key, k)
		}
		out[n] = v
	}
	return out, nil
}

func sortedKeys(m map[int]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

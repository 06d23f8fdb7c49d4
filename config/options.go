/*
 * MIT License
 *
 * Copyright (c) 2026 Nabbar
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config holds the typed option structs every constructor in
// this module accepts, loadable from a viper instance and validated
// with go-playground/validator before use.
package config

import (
	"fmt"
	"time"

	libval "github.com/go-playground/validator/v10"
)

// EngineOptions configures either engine variant's worker pool and
// default poll cadence.
type EngineOptions struct {
	PoolSize    int           `mapstructure:"poolSize" json:"poolSize" yaml:"poolSize" toml:"poolSize" validate:"gte=1"`
	PollTimeout time.Duration `mapstructure:"pollTimeout" json:"pollTimeout" yaml:"pollTimeout" toml:"pollTimeout" validate:"gte=0"`
}

// TimerOptions configures a timer.Wheel's event reporting.
type TimerOptions struct {
	ShowDeadline bool `mapstructure:"showDeadline" json:"showDeadline" yaml:"showDeadline" toml:"showDeadline"`
	ShowCanceled bool `mapstructure:"showCanceled" json:"showCanceled" yaml:"showCanceled" toml:"showCanceled"`
	ShowClosed   bool `mapstructure:"showClosed" json:"showClosed" yaml:"showClosed" toml:"showClosed"`
	OneShot      bool `mapstructure:"oneShot" json:"oneShot" yaml:"oneShot" toml:"oneShot"`
}

// RateLimitOptions configures a ratelimit.Bucket; the bucket is
// unlimited only when Capacity and RatePerSecond are both zero.
type RateLimitOptions struct {
	Capacity      float64 `mapstructure:"capacity" json:"capacity" yaml:"capacity" toml:"capacity" validate:"gte=0"`
	RatePerSecond float64 `mapstructure:"ratePerSecond" json:"ratePerSecond" yaml:"ratePerSecond" toml:"ratePerSecond" validate:"gte=0"`
}

// WatermarkOptions configures a queue.Watermark pair.
type WatermarkOptions struct {
	Low  uint64 `mapstructure:"low" json:"low" yaml:"low" toml:"low"`
	High uint64 `mapstructure:"high" json:"high" yaml:"high" toml:"high" validate:"gtefield=Low"`
}

// StreamOptions configures a socket/stream.Socket.
type StreamOptions struct {
	Read  WatermarkOptions `mapstructure:"read" json:"read" yaml:"read" toml:"read" validate:"required"`
	Write WatermarkOptions `mapstructure:"write" json:"write" yaml:"write" toml:"write" validate:"required"`

	SendLimit    RateLimitOptions `mapstructure:"sendLimit" json:"sendLimit" yaml:"sendLimit" toml:"sendLimit"`
	ReceiveLimit RateLimitOptions `mapstructure:"receiveLimit" json:"receiveLimit" yaml:"receiveLimit" toml:"receiveLimit"`
}

// ListenerOptions configures a socket/listener.Listener.
type ListenerOptions struct {
	Network string           `mapstructure:"network" json:"network" yaml:"network" toml:"network" validate:"required,oneof=tcp tcp4 tcp6 unix"`
	Address string           `mapstructure:"address" json:"address" yaml:"address" toml:"address" validate:"required"`
	Backlog int              `mapstructure:"backlog" json:"backlog" yaml:"backlog" toml:"backlog" validate:"gte=0"`
	Accept  WatermarkOptions `mapstructure:"accept" json:"accept" yaml:"accept" toml:"accept"`
	Stream  StreamOptions    `mapstructure:"stream" json:"stream" yaml:"stream" toml:"stream"`
}

// TLSOptions names the certificate/key material and policy
// certloader.Config should be built from.
type TLSOptions struct {
	CertFile   string   `mapstructure:"certFile" json:"certFile" yaml:"certFile" toml:"certFile" validate:"required_with=KeyFile"`
	KeyFile    string   `mapstructure:"keyFile" json:"keyFile" yaml:"keyFile" toml:"keyFile" validate:"required_with=CertFile"`
	RootCAFile string   `mapstructure:"rootCAFile" json:"rootCAFile" yaml:"rootCAFile" toml:"rootCAFile"`
	VersionMin string   `mapstructure:"versionMin" json:"versionMin" yaml:"versionMin" toml:"versionMin" validate:"omitempty,oneof=1.0 1.1 1.2 1.3"`
	VersionMax string   `mapstructure:"versionMax" json:"versionMax" yaml:"versionMax" toml:"versionMax" validate:"omitempty,oneof=1.0 1.1 1.2 1.3"`
	Ciphers    []string `mapstructure:"ciphers" json:"ciphers" yaml:"ciphers" toml:"ciphers"`
	Curves     []string `mapstructure:"curves" json:"curves" yaml:"curves" toml:"curves"`
	Watch      bool     `mapstructure:"watch" json:"watch" yaml:"watch" toml:"watch"`
}

var validate = libval.New()

// Validate reports every field constraint the struct tags violate as a
// single aggregated error, matching the one-error-per-offending-field
// reporting the teacher's own Config.Validate methods build.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		if _, ok := err.(*libval.InvalidValidationError); ok {
			return err
		}
		var msgs []string
		for _, fe := range err.(libval.ValidationErrors) {
			msgs = append(msgs, fmt.Sprintf("field %q fails constraint %q", fe.StructNamespace(), fe.ActualTag()))
		}
		return fmt.Errorf("config validation failed: %v", msgs)
	}
	return nil
}

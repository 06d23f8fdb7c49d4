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

package config

import (
	"github.com/spf13/viper"

	"github.com/nabbar/ntc/errs"
)

// DefaultListenerOptions mirrors spec.md's own defaults: symmetric 64
// KiB low/4 MiB high watermarks, unlimited rate, a 128-entry backlog.
func DefaultListenerOptions() ListenerOptions {
	return ListenerOptions{
		Network: "tcp",
		Backlog: 128,
		Accept:  WatermarkOptions{Low: 4, High: 64},
		Stream:  DefaultStreamOptions(),
	}
}

func DefaultStreamOptions() StreamOptions {
	return StreamOptions{
		Read:  WatermarkOptions{Low: 64 * 1024, High: 4 * 1024 * 1024},
		Write: WatermarkOptions{Low: 64 * 1024, High: 4 * 1024 * 1024},
	}
}

func DefaultEngineOptions() EngineOptions {
	return EngineOptions{PoolSize: 32}
}

// LoadListenerOptions reads key's subtree from v into a ListenerOptions
// seeded with DefaultListenerOptions, then validates it.
func LoadListenerOptions(v *viper.Viper, key string) (ListenerOptions, error) {
	opt := DefaultListenerOptions()
	if err := v.UnmarshalKey(key, &opt); err != nil {
		return opt, errs.Wrap(errs.Invalid, err, "unmarshal listener config %q", key)
	}
	if err := Validate(&opt); err != nil {
		return opt, errs.Wrap(errs.Invalid, err, "validate listener config %q", key)
	}
	return opt, nil
}

// LoadStreamOptions reads key's subtree from v into a StreamOptions
// seeded with DefaultStreamOptions, then validates it.
func LoadStreamOptions(v *viper.Viper, key string) (StreamOptions, error) {
	opt := DefaultStreamOptions()
	if err := v.UnmarshalKey(key, &opt); err != nil {
		return opt, errs.Wrap(errs.Invalid, err, "unmarshal stream config %q", key)
	}
	if err := Validate(&opt); err != nil {
		return opt, errs.Wrap(errs.Invalid, err, "validate stream config %q", key)
	}
	return opt, nil
}

// LoadTLSOptions reads key's subtree from v into a TLSOptions, then
// validates it. A missing subtree is not an error: TLS is optional at
// every call site that accepts TLSOptions.
func LoadTLSOptions(v *viper.Viper, key string) (TLSOptions, error) {
	var opt TLSOptions
	if err := v.UnmarshalKey(key, &opt); err != nil {
		return opt, errs.Wrap(errs.Invalid, err, "unmarshal tls config %q", key)
	}
	if opt.CertFile == "" && opt.KeyFile == "" {
		return opt, nil
	}
	if err := Validate(&opt); err != nil {
		return opt, errs.Wrap(errs.Invalid, err, "validate tls config %q", key)
	}
	return opt, nil
}

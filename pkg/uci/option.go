package uci

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Option is one configurable engine parameter. Implementations hold a
// pointer into the engine configuration, so assignment takes effect
// wherever that configuration object is shared.
type Option interface {
	UciName() string
	UciString() string
	Get() string
	Set(s string) error
}

type BoolOption struct {
	Name  string
	Value *bool
}

func (opt *BoolOption) UciName() string {
	return opt.Name
}

func (opt *BoolOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v",
		opt.Name, "check", *opt.Value)
}

func (opt *BoolOption) Get() string {
	return strconv.FormatBool(*opt.Value)
}

func (opt *BoolOption) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*opt.Value = v
	return nil
}

type IntOption struct {
	Name  string
	Min   int
	Max   int
	Value *int
}

func (opt *IntOption) UciName() string {
	return opt.Name
}

func (opt *IntOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v min %v max %v",
		opt.Name, "spin", *opt.Value, opt.Min, opt.Max)
}

func (opt *IntOption) Get() string {
	return strconv.Itoa(*opt.Value)
}

func (opt *IntOption) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < opt.Min || v > opt.Max {
		return errors.New("argument out of range")
	}
	*opt.Value = v
	return nil
}

type StringOption struct {
	Name  string
	Value *string
}

func (opt *StringOption) UciName() string {
	return opt.Name
}

func (opt *StringOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v",
		opt.Name, "string", *opt.Value)
}

func (opt *StringOption) Get() string {
	return *opt.Value
}

func (opt *StringOption) Set(s string) error {
	*opt.Value = s
	return nil
}

// Options is the explicit option table handed to the protocol. There is no
// ambient global configuration; every consumer receives this object.
type Options struct {
	list []Option
}

func NewOptions(opts ...Option) *Options {
	return &Options{list: opts}
}

// Find matches option names case-insensitively, as GUIs are sloppy about
// casing.
func (o *Options) Find(name string) Option {
	for _, option := range o.list {
		if strings.EqualFold(option.UciName(), name) {
			return option
		}
	}
	return nil
}

func (o *Options) Has(name string) bool {
	return o.Find(name) != nil
}

func (o *Options) Set(name, value string) error {
	var option = o.Find(name)
	if option == nil {
		return fmt.Errorf("no such option: %v", name)
	}
	return option.Set(value)
}

func (o *Options) Get(name string) (string, bool) {
	var option = o.Find(name)
	if option == nil {
		return "", false
	}
	return option.Get(), true
}

// String renders the declaration block emitted by the "uci" command, one
// option per line.
func (o *Options) String() string {
	var lines = make([]string, 0, len(o.list))
	for _, option := range o.list {
		lines = append(lines, option.UciString())
	}
	return strings.Join(lines, "\n")
}

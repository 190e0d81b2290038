package config

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrConfigSyntax  = errors.New(f("config syntax"))
	ErrConfigKey     = errors.New(f("config key unknown"))
	ErrConfigProgram = errors.New(f("config needs exactly one of program.file or program.source"))
	ErrConfigInject  = errors.New(f("config inject address invalid"))
	ErrConfigMode    = errors.New(f("config mode invalid"))
)

// ErrKey reports a configuration key.
type ErrKey string

func (err ErrKey) Error() string {
	return f("key '%v'", string(err))
}

package cli

import (
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value for YYYY-MM-DD dates. The empty string and
// "none" clear the date.
type dateValue struct {
	t       *time.Time
	set     bool
	cleared bool
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	return domain.FormatDate(d.t)
}

func (d *dateValue) Set(s string) error {
	d.set = true
	if s == "" || s == "none" {
		d.t = nil
		d.cleared = true
		return nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	d.t = &t
	d.cleared = false
	return nil
}

func (d *dateValue) Type() string {
	return "date"
}

// Value returns the parsed date, or nil when unset or cleared.
func (d *dateValue) Value() *time.Time {
	return d.t
}

func dateFlag(fs *pflag.FlagSet, name, usage string) *dateValue {
	v := &dateValue{}
	fs.Var(v, name, usage+" (YYYY-MM-DD)")
	return v
}

// optionalString returns a pointer to the flag value when it was given.
func optionalString(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetString(name)
	return &v
}

func optionalInt(fs *pflag.FlagSet, name string) *int {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetInt(name)
	return &v
}

func optionalFloat(fs *pflag.FlagSet, name string) *float64 {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetFloat64(name)
	return &v
}

func optionalBool(fs *pflag.FlagSet, name string) *bool {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetBool(name)
	return &v
}

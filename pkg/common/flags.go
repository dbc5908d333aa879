package common

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alecthomas/kingpin/v2"
)

const EnvarPrefix = "CAB_"

type FlagHolder interface {
	Flag(name, help string) *kingpin.FlagClause
}

// Envar derives the environment variable of a flag name, for example
// "capability.static.speakerphoneOn" becomes
// "CAB_CAPABILITY_STATIC_SPEAKERPHONE_ON".
func Envar(flagName string) string {
	var buf strings.Builder
	buf.WriteString(EnvarPrefix)
	var last rune
	for _, c := range flagName {
		switch {
		case c == '.' || c == '-':
			buf.WriteRune('_')
		case unicode.IsUpper(c) && unicode.IsLower(last):
			buf.WriteRune('_')
			buf.WriteRune(c)
		default:
			buf.WriteRune(unicode.ToUpper(c))
		}
		last = c
	}
	return buf.String()
}

// Flag registers a flag together with its derived environment variable.
func Flag(using FlagHolder, name, help string) *kingpin.FlagClause {
	return using.Flag(name, help).Envar(Envar(name))
}

// ResettableValue is a cumulative flag value which has to be emptied before
// its flag is applied again.
type ResettableValue interface {
	Reset()
}

// FlagRecorder is a FlagHolder that remembers every flag registered through
// it together with what the user provided for it. Apply sets exactly these
// values again, which lets them win over a configuration file loaded after
// the command line was parsed.
type FlagRecorder struct {
	Delegate FlagHolder

	flags []*recordedFlag
}

type recordedFlag struct {
	clause *kingpin.FlagClause
	values []string
}

func (this *FlagRecorder) Flag(name, help string) *kingpin.FlagClause {
	rf := &recordedFlag{}
	rf.clause = this.Delegate.Flag(name, help).
		PreAction(func(ctx *kingpin.ParseContext) error {
			rf.values = rf.values[:0]
			for _, el := range ctx.Elements {
				if el.Clause == rf.clause && el.Value != nil {
					rf.values = append(rf.values, *el.Value)
				}
			}
			return nil
		})
	this.flags = append(this.flags, rf)
	return rf.clause
}

// Apply sets every recorded flag again which was given on the command line
// or by its environment variable. Flags the user did not touch are left
// alone.
func (this *FlagRecorder) Apply() error {
	if this == nil {
		return nil
	}
	for _, f := range this.flags {
		values := f.values
		if len(values) == 0 && f.clause.HasEnvarValue() {
			if v, ok := f.clause.Model().Value.(interface{ IsCumulative() bool }); ok && v.IsCumulative() {
				values = f.clause.GetSplitEnvarValue()
			} else {
				values = []string{f.clause.GetEnvarValue()}
			}
		}
		if len(values) == 0 {
			continue
		}

		m := f.clause.Model()
		if r, ok := m.Value.(ResettableValue); ok {
			r.Reset()
		}
		for _, plain := range values {
			if err := m.Value.Set(plain); err != nil {
				return fmt.Errorf("cannot apply --%s=%s: %w", m.Name, plain, err)
			}
		}
	}
	return nil
}

package common

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	log "github.com/echocat/slf4g"
)

type settable interface {
	IsZero() bool
	Set(string) error
}

type Prompt struct {
	Name       string
	CanBeEmpty bool
	Password   bool
}

// AskIfZero asks on the terminal for a value as long as the target is still
// zero. Illegal input is logged and asked for again.
func (this Prompt) AskIfZero(of settable) error {
	if !of.IsZero() {
		return nil
	}

	l, err := readline.NewEx(&readline.Config{
		Stdin:  os.Stdin,
		Stdout: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("cannot read from terminal for prompt %q: %w", this.Name, err)
	}
	defer func() {
		_ = l.Close()
	}()

	prompt := fmt.Sprintf("Enter %s: ", this.Name)
	l.SetPrompt(prompt)
	if this.Password {
		l.SetMaskRune('*')
	}
	l.ResetHistory()

	for of.IsZero() {
		line, err := this.readLine(l, prompt)
		if err != nil {
			return fmt.Errorf("cannot read from terminal for prompt %q: %w", this.Name, err)
		}
		if err := of.Set(line); err != nil {
			log.WithError(err).
				With("prompt", this.Name).
				Error("Illegal input.")
		}
		if this.CanBeEmpty && of.IsZero() {
			return nil
		}
	}
	return nil
}

func (this Prompt) readLine(l *readline.Instance, prompt string) (string, error) {
	if this.Password {
		b, err := l.ReadPassword(prompt)
		return string(b), err
	}
	return l.Readline()
}

// AskStringIfZero is AskIfZero for plain strings.
func (this Prompt) AskStringIfZero(of *string) error {
	buf := promptString(*of)
	if err := this.AskIfZero(&buf); err != nil {
		return err
	}
	*of = string(buf)
	return nil
}

type promptString string

func (v promptString) IsZero() bool {
	return len(v) == 0
}

func (v *promptString) Set(s string) error {
	*v = promptString(s)
	return nil
}

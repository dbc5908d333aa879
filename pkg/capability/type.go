package capability

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeSystem = Type(0)
	TypeStatic = Type(1)

	TypeDefault = TypeSystem
)

var (
	AllTypes = Types{
		TypeSystem,
		TypeStatic,
	}
)

func (this *Type) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "system":
		*this = TypeSystem
		return nil
	case "static":
		*this = TypeStatic
		return nil
	default:
		return fmt.Errorf("illegal-capability-type: %s", plain)
	}
}

func (this Type) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-capability-type-%d", this)
	}
	return string(v)
}

func (this Type) MarshalText() (text []byte, err error) {
	switch this {
	case TypeSystem:
		return []byte("system"), nil
	case TypeStatic:
		return []byte("static"), nil
	default:
		return nil, fmt.Errorf("illegal capability type: %d", this)
	}
}

func (this *Type) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Types []Type

func (this Types) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Types) String() string {
	return strings.Join(this.Strings(), ",")
}

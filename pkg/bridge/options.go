package bridge

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
)

// OptionContext names the catalog object an option is attached to.
type OptionContext int

const (
	ContextServer OptionContext = iota
	ContextUserMapping
	ContextTable
)

func (c OptionContext) String() string {
	switch c {
	case ContextServer:
		return "server"
	case ContextUserMapping:
		return "user mapping"
	case ContextTable:
		return "foreign table"
	default:
		return fmt.Sprintf("context(%d)", int(c))
	}
}

// Option is one name/value pair from the host catalog. Options arrive
// as an ordered list so redundant definitions can be detected.
type Option struct {
	Name  string
	Value string
}

// validOptions is the full option surface, each entry tied to the one
// context it may appear in.
var validOptions = []struct {
	name    string
	context OptionContext
}{
	{"host", ContextServer},
	{"port", ContextServer},
	{"protocol", ContextServer},
	{"username", ContextUserMapping},
	{"password", ContextUserMapping},
	{"query", ContextTable},
	{"schema_name", ContextTable},
	{"table_name", ContextTable},
	{"primary_key", ContextTable},
	{"read_consistency", ContextTable},
	{"write_consistency", ContextTable},
}

func isValidOption(name string, context OptionContext) bool {
	for _, opt := range validOptions {
		if opt.context == context && opt.name == name {
			return true
		}
	}
	return false
}

func validNames(context OptionContext) []string {
	var names []string
	for _, opt := range validOptions {
		if opt.context == context {
			names = append(names, opt.name)
		}
	}
	return names
}

// UnknownOptionError reports an option name not valid for its context.
type UnknownOptionError struct {
	Name  string
	Valid []string
}

func (e *UnknownOptionError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("invalid option %q, there are no valid options in this context", e.Name)
	}
	return fmt.Sprintf("invalid option %q, valid options in this context are: %s",
		e.Name, strings.Join(e.Valid, ", "))
}

// ValidateOptions checks an option list against the context it was
// given in. It rejects unknown names, redundant definitions, the
// query/table_name conflict, and malformed consistency levels, all
// before any remote access happens.
func ValidateOptions(context OptionContext, opts []Option) error {
	seen := make(map[string]bool, len(opts))
	for _, opt := range opts {
		if !isValidOption(opt.Name, context) {
			return &UnknownOptionError{Name: opt.Name, Valid: validNames(context)}
		}
		if seen[opt.Name] {
			return errors.New("conflicting or redundant options")
		}
		seen[opt.Name] = true

		switch opt.Name {
		case "query":
			if seen["table_name"] {
				return errors.New("conflicting or redundant options: query cannot be used with table_name")
			}
		case "table_name":
			if seen["query"] {
				return errors.New("conflicting or redundant options: table_name cannot be used with query")
			}
		case "read_consistency":
			level := remote.ConsistencyFromString(opt.Value)
			if level == remote.Unknown {
				return errors.New("unknown read consistency level")
			}
			if level == remote.Any {
				return errors.New("ANY is only supported as a write consistency level, it is not a valid read consistency level")
			}
		case "write_consistency":
			if remote.ConsistencyFromString(opt.Value) == remote.Unknown {
				return errors.New("unknown write consistency level")
			}
		}
	}

	if context == ContextServer && !seen["host"] {
		return errors.New("host must be specified")
	}
	if context == ContextTable && !seen["query"] && !seen["table_name"] {
		return errors.New("either table_name or query must be specified")
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cfgwrap/cfgwrap/pkg/spec"

	"mvdan.cc/sh/v3/syntax"
)

// ErrEmptyCommand is returned when there is nothing to execute.
var ErrEmptyCommand = errors.New("target command is empty")

var powershellBareWord = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./\\-]+$`)

// Wrap returns the argv that runs command under the given shell.
//
// For bash and sh the command becomes a single -c script. A one-element
// command is used as the script verbatim so it may contain pipes and
// redirections; longer commands are quoted word by word. PowerShell gets
// -NoProfile -Command with the same rules. ShellNone (or "") returns the
// command unchanged.
func Wrap(shell spec.Shell, command []string) ([]string, error) {
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}

	switch shell {
	case spec.ShellNone, "":
		return command, nil
	case spec.ShellBash, spec.ShellSh:
		script, err := shellScript(shell, command)
		if err != nil {
			return nil, err
		}
		return []string{string(shell), "-c", script}, nil
	case spec.ShellPowerShell:
		script := command[0]
		if len(command) > 1 {
			script = powershellJoin(command)
		}
		return []string{"powershell", "-NoProfile", "-Command", script}, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", spec.ErrInvalidShell, shell)
	}
}

// CommandLine renders argv as a single POSIX shell command line for display.
// Words that cannot be quoted are shown as-is.
func CommandLine(argv []string) string {
	words := make([]string, len(argv))
	for i, arg := range argv {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			quoted = arg
		}
		words[i] = quoted
	}
	return strings.Join(words, " ")
}

func shellScript(shell spec.Shell, command []string) (string, error) {
	if len(command) == 1 {
		return command[0], nil
	}

	lang := syntax.LangPOSIX
	if shell == spec.ShellBash {
		lang = syntax.LangBash
	}

	words := make([]string, len(command))
	for i, arg := range command {
		quoted, err := syntax.Quote(arg, lang)
		if err != nil {
			return "", fmt.Errorf("cannot quote argument %d for %s: %w", i, shell, err)
		}
		words[i] = quoted
	}
	return strings.Join(words, " "), nil
}

// powershellJoin quotes each word with single quotes unless it is a bare
// word. PowerShell escapes a single quote inside a literal by doubling it.
func powershellJoin(command []string) string {
	words := make([]string, len(command))
	for i, arg := range command {
		if powershellBareWord.MatchString(arg) {
			words[i] = arg
			continue
		}
		words[i] = "'" + strings.ReplaceAll(arg, "'", "''") + "'"
	}
	// The call operator lets a quoted first word run as a command.
	if strings.HasPrefix(words[0], "'") {
		return "& " + strings.Join(words, " ")
	}
	return strings.Join(words, " ")
}

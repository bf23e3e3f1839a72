// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry.
type Id int

const (
	SpecNotFoundId Id = iota + 1
	SpecParseErrorId
	SpecInvalidId
	ProfileNotFoundId
	ProviderLoadFailedId
	SecretsCLINotFoundId
	BuildErrorsId
	CommandNotFoundId
	PermissionDeniedId
	StreamOpenFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for this failure
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as styled terminal output. stylePath is a glamour
// style name ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	specNotFoundIssue = &Issue{
		id: SpecNotFoundId,
		mdMsg: `
# Spec file not found

cfgwrap needs a spec file describing providers, injectors and the target command.

## Things you can try
- Pass the spec path explicitly:
~~~
$ cfgwrap run ./cfgwrap.yaml
~~~
- Check that the file extension is one of ` + "`.yaml`, `.yml`, `.toml`, `.cue` or `.json`" + `.`,
	}

	specParseErrorIssue = &Issue{
		id: SpecParseErrorId,
		mdMsg: `
# The spec file could not be parsed

The file was found but does not match the spec schema.

## Things you can try
- Run the validator to see every schema error with its location:
~~~
$ cfgwrap validate ./cfgwrap.yaml
~~~
- Print the schema to compare field names and types:
~~~
$ cfgwrap schema
~~~

## Minimal spec
~~~yaml
version: "1"
configuration_injectors:
  - name: port
    kind: env_var
    aliases: [PORT]
    sources: ["${ENV:PORT}"]
    default: 8080
target:
  working_dir: .
  command: [./server]
~~~`,
	}

	specInvalidIssue = &Issue{
		id: SpecInvalidId,
		mdMsg: `
# The spec file is not valid

The file parsed, but some rules could not be satisfied.

## Common causes
- Two providers share an ` + "`id`" + `, or two injectors share a ` + "`name`" + `.
- An ` + "`env_var`" + ` alias is not UPPER_SNAKE_CASE.
- A ` + "`named`" + ` alias does not start with ` + "`-`" + ` or ` + "`--`" + `.
- Positional injectors have missing, duplicate or non-sequential ` + "`order`" + ` values.
- A filter chain pattern is not a valid regular expression.`,
	}

	profileNotFoundIssue = &Issue{
		id: ProfileNotFoundId,
		mdMsg: `
# Profile not found

The requested profile is not defined under ` + "`profiles`" + ` in the spec.

## Things you can try
- Check the spelling of ` + "`--profile`" + `.
- Run ` + "`cfgwrap validate`" + ` with ` + "`--verbose`" + ` to list the available profiles.`,
	}

	providerLoadFailedIssue = &Issue{
		id: ProviderLoadFailedId,
		mdMsg: `
# A configuration provider failed to load

cfgwrap stops before running the target when a provider cannot be read.

## Things you can try
- For ` + "`dotenv`" + ` providers, check that the file exists and is readable.
- Disable the provider temporarily with ` + "`enabled: false`" + `.
- Re-run with ` + "`--verbose`" + ` to see the provider that failed.`,
	}

	secretsCLINotFoundIssue = &Issue{
		id: SecretsCLINotFoundId,
		mdMsg: `
# Bitwarden Secrets Manager CLI not found

The ` + "`bws`" + ` provider shells out to the ` + "`bws`" + ` command to fetch secrets.

## Things you can try
- Install the CLI and make sure it is on your PATH.
- Provide an access token with ` + "`access_token`" + ` or the ` + "`BWS_ACCESS_TOKEN`" + ` variable.`,
		extLinks: []HttpLink{"https://bitwarden.com/help/secrets-manager-cli/"},
	}

	buildErrorsIssue = &Issue{
		id: BuildErrorsId,
		mdMsg: `
# The invocation could not be built

One or more injectors failed to resolve or convert their value. The target
command was not started.

## Things you can try
- Preview the plan without running anything:
~~~
$ cfgwrap run ./cfgwrap.yaml --dry-run
~~~
- Show where every value came from:
~~~
$ cfgwrap explain ./cfgwrap.yaml
~~~`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Target command not found

The first element of ` + "`target.command`" + ` could not be executed.

## Things you can try
- Use an absolute path, or a path relative to ` + "`target.working_dir`" + `.
- Check that the command is installed and on your PATH.
- Set ` + "`target.shell`" + ` if the command is a shell builtin or pipeline.`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

cfgwrap could not access a file it needs.

## Things you can try
- Make sure the target command is executable:
~~~
$ chmod +x ./server
~~~
- Check the permissions of the stream output directories.`,
	}

	streamOpenFailedIssue = &Issue{
		id: StreamOpenFailedId,
		mdMsg: `
# Output stream could not be opened

A ` + "`target.stdout.path`" + ` or ` + "`target.stderr.path`" + ` file could not be created.

## Things you can try
- Check that the parent directory is writable.
- Remove ` + "`append: true`" + ` if the file is not a regular file.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the cfgwrap configuration

The user configuration file exists but could not be read or validated.

## Things you can try
- Show the file location:
~~~
$ cfgwrap config path
~~~
- Recreate a default configuration:
~~~
$ cfgwrap config init --force
~~~`,
	}

	issues = map[Id]*Issue{
		specNotFoundIssue.Id():       specNotFoundIssue,
		specParseErrorIssue.Id():     specParseErrorIssue,
		specInvalidIssue.Id():        specInvalidIssue,
		profileNotFoundIssue.Id():    profileNotFoundIssue,
		providerLoadFailedIssue.Id(): providerLoadFailedIssue,
		secretsCLINotFoundIssue.Id(): secretsCLINotFoundIssue,
		buildErrorsIssue.Id():        buildErrorsIssue,
		commandNotFoundIssue.Id():    commandNotFoundIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		streamOpenFailedIssue.Id():   streamOpenFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

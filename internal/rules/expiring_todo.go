package rules

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"esfix/internal/ast"
	"esfix/internal/pkgmeta"
	"esfix/internal/rule"
	"esfix/internal/token"
)

const dateLayout = "2006-01-02"

var (
	todoArguments = regexp.MustCompile(`\[([^\]]+)\]`)
	isoDate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dependencyArg = regexp.MustCompile(`^([\w@./-]+)@([<>=].+)$`)
)

// ExpiringTodoComments reports TODO comments whose conditions are met:
// a past date, a package version, a dependency that appeared or vanished.
func ExpiringTodoComments() *rule.Definition {
	return &rule.Definition{
		Name:        "expiring-todo-comments",
		Description: "Add expiration conditions to TODO comments.",
		Messages: map[string]string{
			"expired-todo":                    "There is a TODO that is past due date: {{expirationDate}}. {{message}}",
			"reached-package-version":         "There is a TODO that is past due package version: {{comparison}}. {{message}}",
			"have-package":                    "There is a TODO that is deprecated since you installed: {{package}}. {{message}}",
			"dont-have-package":               "There is a TODO that is deprecated since you uninstalled: {{package}}. {{message}}",
			"version-matches":                 "There is a TODO match for package version: {{comparison}}. {{message}}",
			"engine-matches":                  "There is a TODO match for Node.js version: {{comparison}}. {{message}}",
			"avoid-multiple-dates":            "Avoid using multiple expiration dates in TODO: {{expirationDates}}. {{message}}",
			"avoid-multiple-package-versions": "Avoid using multiple package versions in TODO: {{versions}}. {{message}}",
			"unexpected-comment":              "Unexpected '{{matchedTerm}}' comment without any conditions: '{{comment}}'.",
		},
		Create: createExpiringTodo,
	}
}

type todoOptions struct {
	terms         *regexp.Regexp
	ignore        []*regexp.Regexp
	allowWarnings bool
	today         time.Time
}

func parseTodoOptions(opts rule.Options) (*todoOptions, error) {
	terms := opts.Strings("terms")
	if len(terms) == 0 {
		terms = []string{"todo", "fixme", "xxx"}
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	out := &todoOptions{
		terms:         regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
		allowWarnings: opts.Bool("allowWarningComments", true),
		today:         time.Now().UTC().Truncate(24 * time.Hour),
	}
	for _, pat := range opts.Strings("ignore") {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", pat, err)
		}
		out.ignore = append(out.ignore, re)
	}
	if d := opts.String("date", ""); d != "" {
		today, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("date option: %w", err)
		}
		out.today = today
	}
	return out, nil
}

func createExpiringTodo(ctx *rule.Context) error {
	opts, err := parseTodoOptions(ctx.Options())
	if err != nil {
		return err
	}
	ctx.On(ast.Program, func(*ast.Node) iter.Seq[*rule.Problem] {
		pkg, _ := ctx.PackageMeta()
		return func(yield func(*rule.Problem) bool) {
			for _, c := range ctx.Source().Comments {
				for _, p := range checkTodo(c, opts, pkg) {
					if !yield(p) {
						return
					}
				}
			}
		}
	})
	return nil
}

// todoConditions: разобранные аргументы из [..].
type todoConditions struct {
	dates       []string
	versions    []string
	engines     []string
	have        []string
	dontHave    []string
	depVersions [][2]string
}

func (tc *todoConditions) empty() bool {
	return len(tc.dates)+len(tc.versions)+len(tc.engines)+len(tc.have)+len(tc.dontHave)+len(tc.depVersions) == 0
}

func parseTodoConditions(args string) *todoConditions {
	tc := &todoConditions{}
	for _, arg := range strings.Split(args, ",") {
		arg = strings.TrimSpace(arg)
		switch {
		case arg == "":
		case isoDate.MatchString(arg):
			tc.dates = append(tc.dates, arg)
		case arg[0] == '>':
			tc.versions = append(tc.versions, strings.ReplaceAll(arg, " ", ""))
		case strings.HasPrefix(arg, "engine:node@"):
			tc.engines = append(tc.engines, strings.TrimPrefix(arg, "engine:node@"))
		case arg[0] == '+' && len(arg) > 1:
			tc.have = append(tc.have, arg[1:])
		case arg[0] == '-' && len(arg) > 1:
			tc.dontHave = append(tc.dontHave, arg[1:])
		default:
			if m := dependencyArg.FindStringSubmatch(arg); m != nil {
				tc.depVersions = append(tc.depVersions, [2]string{m[1], m[2]})
			}
		}
	}
	return tc
}

func checkTodo(c token.Comment, opts *todoOptions, pkg *pkgmeta.Package) []*rule.Problem {
	value := c.Value()
	term := opts.terms.FindString(value)
	if term == "" {
		return nil
	}
	for _, re := range opts.ignore {
		if re.MatchString(value) {
			return nil
		}
	}
	tc := &todoConditions{}
	message := value
	if m := todoArguments.FindStringSubmatchIndex(value); m != nil {
		tc = parseTodoConditions(value[m[2]:m[3]])
		message = strings.TrimPrefix(strings.TrimSpace(value[m[1]:]), ":")
	}
	message = strings.Join(strings.Fields(message), " ")

	var out []*rule.Problem
	report := func(id string, data map[string]string) {
		data["message"] = message
		out = append(out, &rule.Problem{Span: c.Span, MessageID: id, Data: data})
	}

	if tc.empty() {
		if !opts.allowWarnings {
			report("unexpected-comment", map[string]string{"matchedTerm": term, "comment": strings.TrimSpace(c.Value())})
		}
		return out
	}

	switch len(tc.dates) {
	case 0:
	case 1:
		if due, err := time.Parse(dateLayout, tc.dates[0]); err == nil && due.Before(opts.today) {
			report("expired-todo", map[string]string{"expirationDate": tc.dates[0]})
		}
	default:
		report("avoid-multiple-dates", map[string]string{"expirationDates": strings.Join(tc.dates, ", ")})
	}

	if pkg == nil {
		return out
	}

	switch len(tc.versions) {
	case 0:
	case 1:
		if v, err := pkg.SemVersion(); err == nil && satisfies(v, tc.versions[0]) {
			report("reached-package-version", map[string]string{"comparison": tc.versions[0]})
		}
	default:
		report("avoid-multiple-package-versions", map[string]string{"versions": strings.Join(tc.versions, ", ")})
	}

	for _, name := range tc.have {
		if _, ok := pkg.Dependency(name); ok {
			report("have-package", map[string]string{"package": name})
		}
	}
	for _, name := range tc.dontHave {
		if _, ok := pkg.Dependency(name); !ok {
			report("dont-have-package", map[string]string{"package": name})
		}
	}
	for _, dv := range tc.depVersions {
		if v, ok := pkg.DependencyVersion(dv[0]); ok && satisfies(v, dv[1]) {
			report("version-matches", map[string]string{"comparison": dv[0] + "@" + dv[1]})
		}
	}
	for _, cond := range tc.engines {
		if v, ok := pkg.EngineVersion("node"); ok && satisfies(v, cond) {
			report("engine-matches", map[string]string{"comparison": "node" + cond})
		}
	}
	return out
}

func satisfies(v *semver.Version, constraint string) bool {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false
	}
	return c.Check(v)
}

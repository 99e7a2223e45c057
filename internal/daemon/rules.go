package daemon

import (
	"fmt"
	"regexp"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/platform"
)

// rule is a config.Rule with its patterns compiled.
type rule struct {
	config.Rule
	class *regexp.Regexp
	title *regexp.Regexp
}

// defaultRule applies to windows no configured rule matches: managed on the
// current workspace with its decorations left alone.
var defaultRule = config.Rule{Workspaces: []int{0}}

func compileRules(rules []config.Rule) ([]rule, error) {
	out := make([]rule, 0, len(rules))
	for i, r := range rules {
		class, err := regexp.Compile(r.Class)
		if err != nil {
			return nil, fmt.Errorf("rules[%d].class: %w", i, err)
		}
		title, err := regexp.Compile(r.Title)
		if err != nil {
			return nil, fmt.Errorf("rules[%d].title: %w", i, err)
		}
		out = append(out, rule{Rule: r, class: class, title: title})
	}
	return out, nil
}

func (r rule) matches(w platform.Window) bool {
	return r.class.MatchString(w.Class) && r.title.MatchString(w.Title)
}

// matchRule returns the first rule matching w.
func matchRule(rules []rule, w platform.Window) config.Rule {
	for _, r := range rules {
		if r.matches(w) {
			return r.Rule
		}
	}
	return defaultRule
}

// decoration resolves a rule's decoration state against the window's
// current one.
func decoration(d config.Decoration, current bool) bool {
	switch d {
	case config.DecorationShown:
		return true
	case config.DecorationHidden:
		return false
	default:
		return current
	}
}

package lint

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/dslint/pkg/fix"
	"github.com/yaklabco/dslint/pkg/jsast"
)

// TraversalState tracks the node being visited and its ancestors.
type TraversalState struct {
	// Current is the node being visited.
	Current *jsast.Node

	// Ancestors holds the ancestors of Current, root first.
	Ancestors []*jsast.Node
}

// HandlerContext is passed to a rule handler for one node visit.
type HandlerContext struct {
	// File is the snapshot being dispatched.
	File *jsast.FileSnapshot

	// FileContext describes the file's path.
	FileContext FileContext

	// Rule is the rule whose handler is running.
	Rule *Rule

	state   *TraversalState
	order   int
	pending []Violation
}

// Options returns the running rule's compiled options.
func (c *HandlerContext) Options() Options {
	return c.Rule.Options()
}

// Node returns the node being visited.
func (c *HandlerContext) Node() *jsast.Node {
	return c.state.Current
}

// Ancestors returns the ancestors of the current node, nearest first.
func (c *HandlerContext) Ancestors() []*jsast.Node {
	out := slices.Clone(c.state.Ancestors)
	slices.Reverse(out)
	return out
}

// Report emits a violation located at the current node.
func (c *HandlerContext) Report(messageID string, data map[string]string, edits []fix.TextEdit) {
	c.report(nodeLocation(c.state.Current), messageID, data, edits)
}

// ReportAt emits a violation located at r, a sub-span of the file such as
// one class name inside a string literal.
func (c *HandlerContext) ReportAt(r jsast.Range, messageID string, data map[string]string, edits []fix.TextEdit) {
	c.report(rangeLocation(c.File, r), messageID, data, edits)
}

func (c *HandlerContext) report(loc Location, messageID string, data map[string]string, edits []fix.TextEdit) {
	v := Violation{
		RuleName:    c.Rule.Name(),
		Location:    loc,
		MessageID:   messageID,
		MessageData: cloneData(data),
		Severity:    c.Rule.Severity(),
		Message:     c.Rule.Message(messageID, data),
		order:       c.order,
	}
	if c.Rule.Definition().Fixable && len(edits) > 0 {
		v.Fix = slices.Clone(edits)
	}
	c.pending = append(c.pending, v)
}

// Dispatch walks file's tree once in pre-order, left to right. At every node
// each rule visiting the node's kind runs its handler, in rule order.
//
// A handler that returns an error or panics contributes one crash violation
// instead of its reports for that node, and the rule is skipped for the rest
// of the file. The result is sorted by start offset, then rule order.
func Dispatch(file *jsast.FileSnapshot, fc FileContext, rules []*Rule) []Violation {
	if file == nil || file.Root == nil || len(rules) == 0 {
		return nil
	}

	byKind := make(map[jsast.Kind][]int)
	for i, rule := range rules {
		for _, kind := range rule.def.NodeKinds() {
			byKind[kind] = append(byKind[kind], i)
		}
	}

	d := &dispatcher{
		file:    file,
		fc:      fc,
		rules:   rules,
		byKind:  byKind,
		crashed: make([]bool, len(rules)),
		state:   &TraversalState{},
	}

	//nolint:errcheck,revive // enter and leave never return errors
	jsast.WalkWithContext(file.Root, d.enter, d.leave)

	slices.SortStableFunc(d.violations, func(a, b Violation) int {
		if a.Location.Range.Start != b.Location.Range.Start {
			return a.Location.Range.Start - b.Location.Range.Start
		}
		return a.order - b.order
	})

	return d.violations
}

type dispatcher struct {
	file       *jsast.FileSnapshot
	fc         FileContext
	rules      []*Rule
	byKind     map[jsast.Kind][]int
	crashed    []bool
	state      *TraversalState
	violations []Violation
}

func (d *dispatcher) enter(node *jsast.Node) error {
	d.state.Current = node

	for _, idx := range d.byKind[node.Kind] {
		if d.crashed[idx] {
			continue
		}
		d.invoke(idx, node)
	}

	d.state.Ancestors = append(d.state.Ancestors, node)
	return nil
}

func (d *dispatcher) leave(*jsast.Node) error {
	d.state.Ancestors = d.state.Ancestors[:len(d.state.Ancestors)-1]
	if n := len(d.state.Ancestors); n > 0 {
		d.state.Current = d.state.Ancestors[n-1]
	}
	return nil
}

// invoke runs one handler, committing its reports only on success.
func (d *dispatcher) invoke(idx int, node *jsast.Node) {
	rule := d.rules[idx]
	ctx := &HandlerContext{
		File:        d.file,
		FileContext: d.fc,
		Rule:        rule,
		state:       d.state,
		order:       idx,
	}

	if err := runHandler(rule.Handler(node.Kind), ctx, node); err != nil {
		d.crashed[idx] = true
		crash := RuleCrashedViolation(rule, node, err)
		crash.order = idx
		d.violations = append(d.violations, crash)
		return
	}

	d.violations = append(d.violations, ctx.pending...)
}

// errHandlerPanic wraps values recovered from panicking handlers.
var errHandlerPanic = errors.New("panic")

func runHandler(handler Handler, ctx *HandlerContext, node *jsast.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errHandlerPanic, r)
		}
	}()
	return handler(ctx, node)
}

package condition

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expr evaluates conditions with expr-lang. Identifiers resolve against the
// scope; unknown names evaluate to nil.
type Expr struct {
	programs sync.Map // string -> *vm.Program
}

func NewExpr() *Expr {
	return &Expr{}
}

func (e *Expr) Evaluate(condition string, scope map[string]any) (bool, error) {
	program, err := e.compile(condition)
	if err != nil {
		return false, err
	}

	out, err := expr.Run(program, scope)
	if err != nil {
		return false, fmt.Errorf("evaluating %s: %w", Wrap(condition), err)
	}

	return Truthy(out), nil
}

// Compile checks that condition parses without evaluating it.
func (e *Expr) Compile(condition string) error {
	_, err := e.compile(condition)
	return err
}

func (e *Expr) compile(condition string) (*vm.Program, error) {
	source := Unwrap(condition)

	if cached, ok := e.programs.Load(source); ok {
		return cached.(*vm.Program), nil
	}

	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", Wrap(condition), err)
	}

	actual, _ := e.programs.LoadOrStore(source, program)
	return actual.(*vm.Program), nil
}

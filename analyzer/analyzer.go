// Package analyzer checks coroutine bodies for constructs that break
// cooperative scheduling. A body passed to eagerloop.Go or eagerloop.Invoke
// must only suspend through futures: goroutines, channel operations, select
// and the time package's own clock all bypass the scheduler and either block
// the single thread of control or introduce nondeterminism.
package analyzer

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

func New() *analysis.Analyzer {
	return &analysis.Analyzer{
		Name:     "eagerloop",
		Doc:      "Checks for common errors in coroutine bodies",
		Run:      run,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
	}
}

// Detection is syntactic, like matching on the parameter type name: we look
// for calls spelled eagerloop.Go / eagerloop.Invoke and inspect their body
// argument when it is a function literal.
func run(pass *analysis.Pass) (interface{}, error) {
	inspector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{(*ast.CallExpr)(nil)}

	inspector.Preorder(nodeFilter, func(node ast.Node) {
		call := node.(*ast.CallExpr)

		if !isSubmission(call) {
			return
		}

		// Go/Invoke take (ctx, scheduler, body)
		if len(call.Args) != 3 {
			return
		}

		body, ok := call.Args[2].(*ast.FuncLit)
		if !ok {
			return
		}

		checkBody(pass, body)
	})

	return nil, nil
}

func isSubmission(call *ast.CallExpr) bool {
	callee := call.Fun

	// Strip explicit instantiation: eagerloop.Go[int](...)
	if idx, ok := callee.(*ast.IndexExpr); ok {
		callee = idx.X
	}

	sel, ok := callee.(*ast.SelectorExpr)
	if !ok {
		return false
	}

	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != "eagerloop" {
		return false
	}

	return sel.Sel.Name == "Go" || sel.Sel.Name == "Invoke"
}

func checkBody(pass *analysis.Pass, body *ast.FuncLit) {
	ast.Inspect(body.Body, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.GoStmt:
			pass.Reportf(n.Pos(), "goroutines bypass the cooperative scheduler; submit another coroutine instead of `go`")

		case *ast.SelectStmt:
			pass.Reportf(n.Pos(), "select blocks the scheduler thread; coroutines may only suspend by awaiting a future")

		case *ast.SendStmt:
			pass.Reportf(n.Pos(), "channel send blocks the scheduler thread; use a future to hand a value to another coroutine")

		case *ast.UnaryExpr:
			if n.Op.String() == "<-" {
				pass.Reportf(n.Pos(), "channel receive blocks the scheduler thread; use a future to wait for a value")
			}

		case *ast.CallExpr:
			if name, ok := timeCall(n); ok {
				switch name {
				case "Sleep":
					pass.Reportf(n.Pos(), "time.Sleep blocks the scheduler thread; await scheduler.ScheduleTimer instead")
				case "Now":
					pass.Reportf(n.Pos(), "time.Now ignores virtual time; use scheduler.Now instead")
				case "After", "Tick", "NewTimer", "NewTicker":
					pass.Reportf(n.Pos(), "time.%s runs outside the scheduler's clock; await scheduler.ScheduleTimer instead", name)
				}
			}
		}

		return true
	})
}

func timeCall(call *ast.CallExpr) (string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}

	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != "time" {
		return "", false
	}

	return sel.Sel.Name, true
}

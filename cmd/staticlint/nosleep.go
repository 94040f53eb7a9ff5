package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// NoSleepAnalyzer запрещает time.Sleep вне тестов.
// Паузы между пакетами перевода и повторами должны прерываться отменой запроса,
// поэтому в рабочем коде используется таймер с select по ctx.Done().
var NoSleepAnalyzer = &analysis.Analyzer{
	Name:     "nosleep",
	Doc:      "prohibits time.Sleep outside of _test.go files; use a context-aware timer instead",
	Run:      runNoSleepCheck,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func runNoSleepCheck(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node) {
		call := node.(*ast.CallExpr)
		filename := pass.Fset.Position(call.Pos()).Filename
		if strings.HasSuffix(filename, "_test.go") {
			return
		}
		if isPkgFuncCall(pass, call, "time", "Sleep") {
			pass.Reportf(call.Pos(), "time.Sleep ignores context cancellation; wait on a timer and ctx.Done() instead")
		}
	})

	return nil, nil
}

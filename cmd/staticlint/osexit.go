package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// OsExitAnalyzer запрещает прямой вызов os.Exit в функции main пакета main:
// завершение должно проходить через возврат ошибки, чтобы отработали defer
// (закрытие хранилищ, сброс логгера).
var OsExitAnalyzer = &analysis.Analyzer{
	Name:     "osexit",
	Doc:      "prohibits direct calls to os.Exit in main function of main package",
	Run:      runOsExitCheck,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func runOsExitCheck(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(node ast.Node) {
		funcDecl := node.(*ast.FuncDecl)
		if funcDecl.Name.Name != "main" || funcDecl.Recv != nil || funcDecl.Body == nil {
			return
		}

		ast.Inspect(funcDecl.Body, func(n ast.Node) bool {
			// Замыкания внутри main тоже выполняются в main
			callExpr, ok := n.(*ast.CallExpr)
			if ok && isPkgFuncCall(pass, callExpr, "os", "Exit") {
				pass.Reportf(callExpr.Pos(), "avoid direct os.Exit call in main function of main package")
			}
			return true
		})
	})

	return nil, nil
}

// isPkgFuncCall сообщает, что call вызывает функцию name из пакета pkgPath.
// Учитывает переименованный импорт.
func isPkgFuncCall(pass *analysis.Pass, call *ast.CallExpr, pkgPath, name string) bool {
	selExpr, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || selExpr.Sel.Name != name {
		return false
	}
	ident, ok := selExpr.X.(*ast.Ident)
	if !ok {
		return false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	return ok && pkgName.Imported().Path() == pkgPath
}

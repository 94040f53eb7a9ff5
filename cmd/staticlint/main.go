// Command staticlint запускает набор статических анализаторов для проекта:
// проходы golang.org/x/tools, staticcheck, go-critic, errcheck
// и собственные osexit и nosleep.
//
// Запуск: go run ./cmd/staticlint ./...
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/appends"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/directive"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/ifaceassert"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/reflectvaluecompare"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/analysis/passes/unusedwrite"

	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/go-critic/go-critic/checkers/analyzer"
	"github.com/kisielk/errcheck/errcheck"
)

func main() {
	multichecker.Main(analyzers()...)
}

// analyzers собирает полный набор проверок.
// asm, cgo и unsafe в проекте нет, поэтому asmdecl, cgocall и unsafeptr не подключены.
// fieldalignment тоже: порядок полей в DTO и конфигурации следует JSON, а не выравниванию.
func analyzers() []*analysis.Analyzer {
	checks := []*analysis.Analyzer{OsExitAnalyzer, NoSleepAnalyzer}
	checks = append(checks, concurrencyChecks()...)
	checks = append(checks, httpAndJSONChecks()...)
	checks = append(checks, generalChecks()...)
	checks = append(checks, analyzer.Analyzer, errcheck.Analyzer)

	for _, group := range [][]*lint.Analyzer{staticcheck.Analyzers, stylecheck.Analyzers, simple.Analyzers} {
		for _, v := range group {
			checks = append(checks, v.Analyzer)
		}
	}
	return checks
}

// concurrencyChecks ловят ошибки вокруг контекстов, горутин и блокировок:
// очистка кэша, graceful shutdown и отменяемые паузы между пакетами.
func concurrencyChecks() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		atomic.Analyzer,
		copylock.Analyzer,
		lostcancel.Analyzer,
		loopclosure.Analyzer,
		sigchanyzer.Analyzer,
		testinggoroutine.Analyzer,
		defers.Analyzer,
	}
}

// httpAndJSONChecks для обработчиков, прокси озвучки и разбора ответов модели.
func httpAndJSONChecks() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		httpresponse.Analyzer,
		unmarshal.Analyzer,
		structtag.Analyzer,
		stdmethods.Analyzer,
		errorsas.Analyzer,
	}
}

func generalChecks() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		appends.Analyzer,
		assign.Analyzer,
		bools.Analyzer,
		composite.Analyzer,
		directive.Analyzer,
		ifaceassert.Analyzer,
		nilfunc.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		reflectvaluecompare.Analyzer,
		shadow.Analyzer,
		tests.Analyzer,
		unreachable.Analyzer,
		unusedresult.Analyzer,
		unusedwrite.Analyzer,
	}
}

package starlambda

import (
	"github.com/reusee/captai/capture"
	"go.starlark.net/syntax"
)

type fieldUse struct {
	name  string
	write bool
	pos   syntax.Position
}

type analysis struct {
	// cap.<name> references, in source order
	fields []fieldUse
	// the body refers to the enclosing object
	this bool
	// derived from the return statements
	result capture.Type
}

func analyze(file *syntax.File) (ret analysis) {
	def := file.Stmts[0].(*syntax.DefStmt)

	// assignment targets
	targets := make(map[*syntax.DotExpr]syntax.Token)
	var markTargets func(expr syntax.Expr, op syntax.Token)
	markTargets = func(expr syntax.Expr, op syntax.Token) {
		switch expr := expr.(type) {
		case *syntax.DotExpr:
			targets[expr] = op
		case *syntax.TupleExpr:
			for _, e := range expr.List {
				markTargets(e, op)
			}
		case *syntax.ListExpr:
			for _, e := range expr.List {
				markTargets(e, op)
			}
		case *syntax.ParenExpr:
			markTargets(expr.X, op)
		case *syntax.IndexExpr:
			// element assignment reads the container and changes it in place
			markTargets(expr.X, syntax.PLUS_EQ)
		}
	}

	var visit func(node syntax.Node) bool
	visit = func(node syntax.Node) bool {
		switch node := node.(type) {

		case *syntax.AssignStmt:
			markTargets(node.LHS, node.Op)
		case *syntax.ForStmt:
			markTargets(node.Vars, syntax.EQ)
		case *syntax.ForClause:
			markTargets(node.Vars, syntax.EQ)
		case *syntax.CallExpr:
			// list and dict methods that change the receiver
			if fn, ok := node.Fn.(*syntax.DotExpr); ok && mutatingMethods[fn.Name.Name] {
				markTargets(fn.X, syntax.PLUS_EQ)
			}

		case *syntax.DotExpr:
			if ident, ok := node.X.(*syntax.Ident); ok && ident.Name == capName {
				op, assigned := targets[node]
				if !assigned || op != syntax.EQ {
					// augmented assignments read first
					ret.fields = append(ret.fields, fieldUse{
						name: node.Name.Name,
						pos:  node.Dot,
					})
				}
				if assigned {
					ret.fields = append(ret.fields, fieldUse{
						name:  node.Name.Name,
						write: true,
						pos:   node.Dot,
					})
				}
				return false
			}
			// the selected name is not a free identifier
			syntax.Walk(node.X, visit)
			return false

		case *syntax.Ident:
			if node.Name == thisName {
				ret.this = true
			}

		}
		return true
	}
	for _, stmt := range def.Body {
		syntax.Walk(stmt, visit)
	}

	ret.result = inferResult(def.Body)
	return
}

var mutatingMethods = map[string]bool{
	"append":     true,
	"clear":      true,
	"extend":     true,
	"insert":     true,
	"pop":        true,
	"popitem":    true,
	"remove":     true,
	"setdefault": true,
	"update":     true,
}

// inferResult derives a result type from the return statements of body.
// A body without a return value is void; differing or non-literal returns give any,
// and so does a body that may also run off its end.
func inferResult(body []syntax.Stmt) capture.Type {
	var types []capture.Type
	visit := func(node syntax.Node) bool {
		switch node := node.(type) {
		case *syntax.DefStmt, *syntax.LambdaExpr:
			// nested functions return from themselves
			return false
		case *syntax.ReturnStmt:
			types = append(types, exprType(node.Result))
		}
		return true
	}
	for _, stmt := range body {
		syntax.Walk(stmt, visit)
	}

	if len(types) == 0 {
		return capture.Void
	}
	if !terminates(body) {
		types = append(types, capture.Void)
	}
	for _, t := range types[1:] {
		if t != types[0] {
			return capture.Any
		}
	}
	return types[0]
}

// terminates reports whether every path through stmts ends in a return.
func terminates(stmts []syntax.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch stmt := stmts[len(stmts)-1].(type) {
	case *syntax.ReturnStmt:
		return true
	case *syntax.IfStmt:
		return terminates(stmt.True) && terminates(stmt.False)
	}
	return false
}

func exprType(expr syntax.Expr) capture.Type {
	switch expr := expr.(type) {
	case nil:
		return capture.Void
	case *syntax.Literal:
		switch expr.Token {
		case syntax.INT:
			return capture.Int
		case syntax.FLOAT:
			return capture.Float
		case syntax.STRING:
			return capture.String
		}
	case *syntax.Ident:
		switch expr.Name {
		case "True", "False":
			return capture.Bool
		case "None":
			return capture.Void
		}
	case *syntax.UnaryExpr:
		switch expr.Op {
		case syntax.MINUS, syntax.PLUS:
			if t := exprType(expr.X); t == capture.Int || t == capture.Float {
				return t
			}
		case syntax.NOT:
			return capture.Bool
		}
	case *syntax.ParenExpr:
		return exprType(expr.X)
	case *syntax.ListExpr, *syntax.TupleExpr:
		return capture.List
	case *syntax.DictExpr:
		return capture.Map
	case *syntax.LambdaExpr:
		return capture.Func
	}
	return capture.Any
}

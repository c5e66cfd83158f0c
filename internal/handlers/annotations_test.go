package handlers

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"strings"
	"testing"
)

// swag only reads a route block that is the doc comment of its handler.
func TestRouteAnnotationsAttachToHandlers(t *testing.T) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, ".", func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	routes := 0
	for _, pkg := range pkgs {
		for name, f := range pkg.Files {
			attached := map[*ast.CommentGroup]bool{}
			for _, d := range f.Decls {
				if fn, ok := d.(*ast.FuncDecl); ok && fn.Doc != nil {
					attached[fn.Doc] = true
				}
			}
			for _, cg := range f.Comments {
				if !strings.Contains(cg.Text(), "@Router") {
					continue
				}
				routes++
				if !attached[cg] {
					t.Errorf("%s:%d: @Router block is not attached to a handler", name, fset.Position(cg.Pos()).Line)
				}
			}
		}
	}
	if routes == 0 {
		t.Fatal("no @Router annotations found")
	}
}

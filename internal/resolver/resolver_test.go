package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huiyuanXP/racode/pkg/types"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolver_UnsupportedLanguage(t *testing.T) {
	r := New(t.TempDir(), nil)
	_, err := r.Definition(context.Background(), "foo", "rust")
	assert.ErrorIs(t, err, types.ErrUnsupportedLanguage)
}

func TestResolver_EmptySymbol(t *testing.T) {
	r := New(t.TempDir(), nil)
	_, err := r.References(context.Background(), "  ", "python")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestResolver_Timeout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "def f():\n    pass\n")

	r := New(root, nil)
	r.timeout = -time.Second // already expired

	_, err := r.Definition(context.Background(), "f", "python")
	assert.ErrorIs(t, err, types.ErrBackendTimeout)
}

func TestPythonDefinition(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/auth.py", `import os


def helper():
    pass


def login(email, password):
    return email


LOGIN_URL = "/login"
`)
	writeFile(t, root, "node_modules/skip.py", "def login():\n    pass\n")

	r := New(root, nil)
	defs, err := r.Definition(context.Background(), "login", "python")
	require.NoError(t, err)
	require.Len(t, defs, 1)

	d := defs[0]
	assert.Equal(t, "src/auth.py", d.FilePath)
	assert.Equal(t, 8, d.Line)
	assert.Equal(t, types.KindFunctionDefinition, d.Kind)
	assert.True(t, len(d.Context) > 0 && d.Context[:9] == "def login")
}

func TestPythonDefinition_ClassAndAssignment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "m.py", `class Session:
    pass

session = Session()
`)

	r := New(root, nil)

	defs, err := r.Definition(context.Background(), "Session", "python")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, types.KindClassDefinition, defs[0].Kind)

	defs, err = r.Definition(context.Background(), "session", "python")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, types.KindVariableDefinition, defs[0].Kind)
	assert.Equal(t, 4, defs[0].Line)
}

func TestPythonReferences(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", `def login():
    pass

login()
result = login
obj.login()
# login in a comment
s = "login in a string"
`)

	r := New(root, nil)
	refs, err := r.References(context.Background(), "login", "python")
	require.NoError(t, err)

	// Definition, call, and bare-name read. The attribute access, the
	// comment, and the string literal are excluded.
	require.Len(t, refs, 3)

	kinds := map[int]string{}
	for _, ref := range refs {
		kinds[ref.Line] = ref.Kind
		assert.NotEmpty(t, ref.Context)
	}
	assert.Equal(t, types.KindFunctionDefinition, kinds[1])
	assert.Equal(t, types.KindFunctionCall, kinds[4])
	assert.Equal(t, types.KindReference, kinds[5])
}

func TestTypeScriptDefinition(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "components/ModelSelector.tsx", `import React from "react";

export function ModelSelector(props: {}) {
  return <div />;
}
`)
	writeFile(t, root, "types.ts", `export interface Options {
  mode: string;
}

export type Mode = "a" | "b";

export const defaults: Options = { mode: "a" };
`)

	r := New(root, nil)

	defs, err := r.Definition(context.Background(), "ModelSelector", "typescript")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "components/ModelSelector.tsx", defs[0].FilePath)
	assert.Equal(t, 3, defs[0].Line)
	assert.Equal(t, types.KindFunctionDefinition, defs[0].Kind)

	defs, err = r.Definition(context.Background(), "Options", "typescript")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, types.KindInterfaceDefinition, defs[0].Kind)

	defs, err = r.Definition(context.Background(), "Mode", "typescript")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, types.KindTypeDefinition, defs[0].Kind)

	defs, err = r.Definition(context.Background(), "defaults", "typescript")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, types.KindVariableDefinition, defs[0].Kind)
}

func TestTypeScriptDefinition_LocalsExcluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", `export function outer() {
  const inner = 1;
  return inner;
}
`)

	r := New(root, nil)
	defs, err := r.Definition(context.Background(), "inner", "typescript")
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestTypeScriptReferences(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "components/ModelSelector.tsx", `export function ModelSelector() {
  return <div />;
}
`)
	writeFile(t, root, "pages/one.tsx", `import { ModelSelector } from "../components/ModelSelector";

export function PageOne() {
  return <ModelSelector />;
}
`)
	writeFile(t, root, "lib/use.ts", `import { ModelSelector } from "../components/ModelSelector";

export const render = () => ModelSelector();
`)

	r := New(root, nil)
	refs, err := r.References(context.Background(), "ModelSelector", "typescript")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(refs), 4)
	for _, ref := range refs {
		assert.NotEmpty(t, ref.Context)
	}

	var hasDefinition, hasCall bool
	for _, ref := range refs {
		switch ref.Kind {
		case types.KindFunctionDefinition:
			hasDefinition = true
		case types.KindFunctionCall:
			hasCall = true
		}
	}
	assert.True(t, hasDefinition)
	assert.True(t, hasCall)
}

func TestTypeScriptReferences_JavaScript(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", `function greet(name) {
  return "hi " + name;
}

greet("world");
`)

	r := New(root, nil)
	refs, err := r.References(context.Background(), "greet", "typescript")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, types.KindFunctionDefinition, refs[0].Kind)
	assert.Equal(t, types.KindFunctionCall, refs[1].Kind)
}

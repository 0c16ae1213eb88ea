package translate

import (
	"testing"

	"github.com/cristianoliveira/nvr/internal/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func mustIntent(t *testing.T, p intent.Params) intent.Intent {
	t.Helper()
	in, err := intent.New(p)
	require.NoError(t, err)
	return in
}

func commands(ops []Operation) []string {
	var out []string
	for _, op := range ops {
		switch op.Kind {
		case OpCommand:
			out = append(out, op.Args[0].(string))
		case OpOutput:
			out = append(out, "execute:"+op.Args[1].([]interface{})[0].(string))
		case OpEval:
			out = append(out, "eval:"+op.Args[0].(string))
		case OpKeys:
			out = append(out, "keys:"+op.Args[0].(string))
		case OpSetLines:
			out = append(out, "setlines")
		}
	}
	return out
}

func TestTranslateFileOpensPerLayout(t *testing.T) {
	tests := []struct {
		name   string
		params intent.Params
		want   []string
	}{
		{"edit", intent.Params{Files: []string{"/a", "/b"}}, []string{`edit /a`, `edit /b`}},
		{"split", intent.Params{Files: []string{"/a"}, Split: true}, []string{`split /a`}},
		{"vsplit", intent.Params{Files: []string{"/a"}, VSplit: true}, []string{`vsplit /a`}},
		{"tab", intent.Params{Files: []string{"/a"}, Tab: true}, []string{`tabedit /a`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := Translate(mustIntent(t, tt.params))
			assert.Equal(t, tt.want, commands(ops))
			for _, op := range ops {
				assert.True(t, op.Opens)
				assert.Equal(t, "nvim_command", op.Method)
			}
		})
	}
}

func TestTranslateEscapesFileNamesOnce(t *testing.T) {
	ops := Translate(mustIntent(t, intent.Params{
		Files: []string{"a b|c", `foo'bar'quux`, `foo"bar"quux`},
		Split: true,
		Cwd:   "/w",
	}))
	assert.Equal(t, []string{
		`split /w/a\ b\|c`,
		`split /w/foo\'bar\'quux`,
		`split /w/foo\"bar\"quux`,
	}, commands(ops))
	assert.Equal(t, "/w/a b|c", ops[0].Target)
}

func TestTranslateOrder(t *testing.T) {
	in := mustIntent(t, intent.Params{
		Files:          []string{"+10", "/a", "-"},
		Stdin:          "x\ny",
		PreCommands:    []string{"set nu"},
		PostCommands:   []string{"normal! zz"},
		PreviousWindow: true,
		QuickfixFile:   "/errs",
		Tag:            "main",
		Expr:           strPtr("bufname('')"),
	})
	assert.Equal(t, []string{
		"wincmd p",
		"set nu",
		"edit /a",
		"enew",
		"setlines",
		"cfile /errs",
		"tag main",
		"10",
		"normal! zz",
		"eval:bufname('')",
	}, commands(Translate(in)))
}

func TestTranslateStdinBuffer(t *testing.T) {
	ops := Translate(mustIntent(t, intent.Params{Files: []string{"-"}, Stdin: "one\ntwo\n", Tab: true}))
	require.Len(t, ops, 2)
	assert.Equal(t, "tabnew", ops[0].Args[0])
	assert.False(t, ops[0].Opens)
	assert.Equal(t, OpSetLines, ops[1].Kind)
	assert.True(t, ops[1].Opens)
	assert.Equal(t, []interface{}{0, 0, -1, true, []string{"one", "two"}}, ops[1].Args)
}

func TestTranslateDiff(t *testing.T) {
	ops := Translate(mustIntent(t, intent.Params{Files: []string{"/a", "/b"}, Diff: true}))
	assert.Equal(t, []string{"vsplit /a", "diffthis", "vsplit /b", "diffthis"}, commands(ops))
}

func TestTranslatePayloads(t *testing.T) {
	keys := Translate(mustIntent(t, intent.Params{Send: strPtr("iabc<cr><esc>")}))
	require.Len(t, keys, 1)
	assert.Equal(t, Operation{Kind: OpKeys, Method: "nvim_input", Args: []interface{}{"iabc<cr><esc>"}}, keys[0])

	cmd := Translate(mustIntent(t, intent.Params{Command: strPtr("echo 'x|y'")}))
	require.Len(t, cmd, 1)
	assert.Equal(t, OpOutput, cmd[0].Kind)
	assert.Equal(t, []interface{}{"execute", []interface{}{"echo 'x|y'"}}, cmd[0].Args)

	expr := Translate(mustIntent(t, intent.Params{Files: []string{"/f"}, Expr: strPtr("getline(1)")}))
	assert.Equal(t, []string{"edit /f", "eval:getline(1)"}, commands(expr))
}

func TestTranslateNothing(t *testing.T) {
	assert.Empty(t, Translate(mustIntent(t, intent.Params{})))
}

func TestOperationString(t *testing.T) {
	op := command("edit /a")
	assert.Equal(t, "command nvim_command", op.String())
	op.Target = "/a"
	assert.Equal(t, "command nvim_command (/a)", op.String())
	assert.Equal(t, "set-lines", OpSetLines.String())
}

package eval

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/reox-lang/reoxc/internal/value"
)

// registerBuiltins returns the native-action catalogue from spec.md §6.3.
//
// Every builtin here returns a sensible zero value on an argument-type
// mismatch (empty string, Nil, false, or -1) instead of erroring, following
// stdlib/core.rs and stdlib/io.rs in original_source/reox-lang rather than
// the teacher's error-on-mismatch Nix builtins.
func registerBuiltins() map[string]value.NativeAction {
	reg := make(map[string]value.NativeAction)
	add := func(name string, fn func([]value.Value) value.Value) {
		reg[name] = &value.Builtin{BuiltinName: name, Fn: fn}
	}

	add("print", func(args []value.Value) value.Value {
		parts := make([]any, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Println(parts...)

		return value.Nil{}
	})

	add("len", func(args []value.Value) value.Value {
		if len(args) != 1 {
			return value.Int(-1)
		}
		switch v := args[0].(type) {
		case value.String:
			return value.Int(len(v))
		case *value.Array:
			return value.Int(len(v.Elements))
		case *value.Map:
			return value.Int(len(v.Entries))
		default:
			return value.Int(-1)
		}
	})

	add("push", func(args []value.Value) value.Value {
		if len(args) != 2 {
			return value.Nil{}
		}
		arr, ok := args[0].(*value.Array)
		if !ok {
			return value.Nil{}
		}
		arr.Elements = append(arr.Elements, args[1])

		return arr
	})

	add("pop", func(args []value.Value) value.Value {
		if len(args) != 1 {
			return value.Nil{}
		}
		arr, ok := args[0].(*value.Array)
		if !ok || len(arr.Elements) == 0 {
			return value.Nil{}
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]

		return last
	})

	add("map_new", func(args []value.Value) value.Value {
		return value.NewMap()
	})

	add("map_set", func(args []value.Value) value.Value {
		if len(args) != 3 {
			return value.Nil{}
		}
		m, ok := args[0].(*value.Map)
		key, keyOK := args[1].(value.String)
		if !ok || !keyOK {
			return value.Nil{}
		}
		m.Entries[string(key)] = args[2]

		return m
	})

	add("map_get", func(args []value.Value) value.Value {
		if len(args) != 2 {
			return value.Nil{}
		}
		m, ok := args[0].(*value.Map)
		key, keyOK := args[1].(value.String)
		if !ok || !keyOK {
			return value.Nil{}
		}
		if v, found := m.Entries[string(key)]; found {
			return v
		}

		return value.Nil{}
	})

	add("rgba", func(args []value.Value) value.Value {
		if len(args) != 4 {
			return value.Color{}
		}
		r, g, b, a := byteArg(args[0]), byteArg(args[1]), byteArg(args[2]), byteArg(args[3])

		return value.Color{R: r, G: g, B: b, A: a}
	})

	add("rgb", func(args []value.Value) value.Value {
		if len(args) != 3 {
			return value.Color{}
		}
		r, g, b := byteArg(args[0]), byteArg(args[1]), byteArg(args[2])

		return value.Color{R: r, G: g, B: b, A: 255}
	})

	add("hex", func(args []value.Value) value.Value {
		if len(args) != 1 {
			return value.Color{}
		}
		s, ok := args[0].(value.String)
		if !ok {
			return value.Color{}
		}
		hexStr := string(s)
		if len(hexStr) > 0 && hexStr[0] == '#' {
			hexStr = hexStr[1:]
		}
		if len(hexStr) != 6 {
			return value.Color{}
		}
		r, err1 := strconv.ParseUint(hexStr[0:2], 16, 8)
		g, err2 := strconv.ParseUint(hexStr[2:4], 16, 8)
		b, err3 := strconv.ParseUint(hexStr[4:6], 16, 8)
		if err1 != nil || err2 != nil || err3 != nil {
			return value.Color{}
		}

		return value.Color{R: byte(r), G: byte(g), B: byte(b), A: 255}
	})

	add("file_read", func(args []value.Value) value.Value {
		path, ok := stringArg(args, 0)
		if !ok {
			return value.String("")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return value.String("")
		}

		return value.String(data)
	})

	add("file_write", func(args []value.Value) value.Value {
		path, ok1 := stringArg(args, 0)
		content, ok2 := stringArg(args, 1)
		if !ok1 || !ok2 {
			return value.Bool(false)
		}

		return value.Bool(os.WriteFile(path, []byte(content), 0o644) == nil)
	})

	add("file_exists", func(args []value.Value) value.Value {
		path, ok := stringArg(args, 0)
		if !ok {
			return value.Bool(false)
		}
		_, err := os.Stat(path)

		return value.Bool(err == nil)
	})

	add("file_delete", func(args []value.Value) value.Value {
		path, ok := stringArg(args, 0)
		if !ok {
			return value.Bool(false)
		}

		return value.Bool(os.Remove(path) == nil)
	})

	add("file_size", func(args []value.Value) value.Value {
		path, ok := stringArg(args, 0)
		if !ok {
			return value.Int(-1)
		}
		info, err := os.Stat(path)
		if err != nil {
			return value.Int(-1)
		}

		return value.Int(info.Size())
	})

	add("dir_list", func(args []value.Value) value.Value {
		path, ok := stringArg(args, 0)
		if !ok {
			path = "."
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return &value.Array{}
		}
		elems := make([]value.Value, len(entries))
		for i, e := range entries {
			elems[i] = value.String(e.Name())
		}

		return &value.Array{Elements: elems}
	})

	add("time_now", func(args []value.Value) value.Value {
		return value.Int(time.Now().Unix())
	})

	add("time_millis", func(args []value.Value) value.Value {
		return value.Int(time.Now().UnixMilli())
	})

	add("time_sleep", func(args []value.Value) value.Value {
		ms, ok := intArg(args, 0)
		if !ok {
			return value.Nil{}
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)

		return value.Nil{}
	})

	add("env_get", func(args []value.Value) value.Value {
		name, ok := stringArg(args, 0)
		if !ok {
			return value.String("")
		}

		return value.String(os.Getenv(name))
	})

	add("env_args", func(args []value.Value) value.Value {
		elems := make([]value.Value, len(os.Args))
		for i, a := range os.Args {
			elems[i] = value.String(a)
		}

		return &value.Array{Elements: elems}
	})

	add("process_exec", func(args []value.Value) value.Value {
		name, ok := stringArg(args, 0)
		if !ok {
			return value.Int(-1)
		}
		var execArgs []string
		for _, a := range args[1:] {
			if s, ok := a.(value.String); ok {
				execArgs = append(execArgs, string(s))
			}
		}
		cmd := exec.Command(name, execArgs...)
		if err := cmd.Run(); err != nil {
			return value.Int(-1)
		}

		return value.Int(0)
	})

	add("random_int", func(args []value.Value) value.Value {
		lo, ok1 := intArg(args, 0)
		hi, ok2 := intArg(args, 1)
		if !ok1 || !ok2 || hi <= lo {
			return value.Int(-1)
		}

		return value.Int(lo + rand.Int63n(hi-lo))
	})

	return reg
}

func stringArg(args []value.Value, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(value.String)

	return string(s), ok
}

func intArg(args []value.Value, i int) (int64, bool) {
	if i >= len(args) {
		return 0, false
	}
	v, ok := args[i].(value.Int)

	return int64(v), ok
}

func byteArg(v value.Value) byte {
	i, ok := v.(value.Int)
	if !ok {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}

	return byte(i)
}

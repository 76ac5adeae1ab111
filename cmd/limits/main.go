// Command limits is an interactive calculator for symbolic limits.
//
//	> limit(x*exp(-x), x, oo)
//	0
//	> limit(1/x, x, 0, -)
//	-oo
//
// Any other input is parsed and echoed in canonical form.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/njchilds90/gruntz"
	"github.com/peterh/liner"
)

const historyFile = ".gruntz_history"

func main() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("gruntz limit calculator")
	fmt.Println("  limit(expr, var, point[, dir])    e.g. limit(x*exp(-x), x, oo)")
	fmt.Println("  series(expr, var, order)          e.g. series(exp(x), x, 4)")
	fmt.Println("  :quit to exit")

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			fmt.Println()
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			break
		}
		line.AppendHistory(input)
		out, err := eval(input)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(out)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
}

func eval(input string) (string, error) {
	if args, ok := callArgs(input, "limit"); ok {
		return evalLimit(args)
	}
	if args, ok := callArgs(input, "series"); ok {
		return evalSeries(args)
	}
	e, err := gruntz.Parse(input)
	if err != nil {
		return "", err
	}
	return e.String(), nil
}

func callArgs(input, name string) ([]string, bool) {
	if !strings.HasPrefix(input, name+"(") || !strings.HasSuffix(input, ")") {
		return nil, false
	}
	return splitArgs(input[len(name)+1 : len(input)-1]), true
}

func evalLimit(parts []string) (string, error) {
	if len(parts) < 3 || len(parts) > 4 {
		return "", fmt.Errorf("limit takes limit(expr, var, point[, dir])")
	}
	e, err := gruntz.Parse(parts[0])
	if err != nil {
		return "", err
	}
	z, err := parseVar(parts[1])
	if err != nil {
		return "", err
	}
	z0, err := gruntz.Parse(parts[2])
	if err != nil {
		return "", err
	}
	dir := "+"
	if len(parts) == 4 {
		dir = parts[3]
	}
	res, err := gruntz.Limit(e, z, z0, dir)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

func evalSeries(parts []string) (string, error) {
	if len(parts) != 3 {
		return "", fmt.Errorf("series takes series(expr, var, order)")
	}
	e, err := gruntz.Parse(parts[0])
	if err != nil {
		return "", err
	}
	x, err := parseVar(parts[1])
	if err != nil {
		return "", err
	}
	var n int
	if _, err := fmt.Sscanf(parts[2], "%d", &n); err != nil || n < 1 {
		return "", fmt.Errorf("order must be a positive integer")
	}
	res, err := gruntz.Series(e, x, n)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

func parseVar(s string) (*gruntz.Sym, error) {
	v, err := gruntz.Parse(s)
	if err != nil {
		return nil, err
	}
	z, ok := v.(*gruntz.Sym)
	if !ok {
		return nil, fmt.Errorf("%s is not a variable", s)
	}
	return z, nil
}

func splitArgs(s string) []string {
	parts := []string{}
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

package main

import (
	"os"
	"strings"

	"larder-cli/internal/cli"
)

// takesValue lists the root command's string flags. The token following one
// of them is that flag's argument, not a positional.
var takesValue = map[string]bool{
	"--dir":       true,
	"--workspace": true,
	"--actor":     true,
	"--format":    true,
}

// firstPositional scans past leading flags and returns the index of the
// first positional token in argv, or -1 when there is none. A bare "--"
// ends flag parsing; whatever follows it counts as positional.
func firstPositional(argv []string) int {
	for i := 1; i < len(argv); i++ {
		switch tok := strings.TrimSpace(argv[i]); {
		case tok == "":
		case tok == "--":
			if i+1 < len(argv) {
				return i + 1
			}
			return -1
		case strings.HasPrefix(tok, "-"):
			// --flag=value carries its value in the same token; bool and
			// unknown flags consume nothing either way.
			if takesValue[tok] {
				i++
			}
		default:
			return i
		}
	}
	return -1
}

// expandProductShortcut lets a pasted product id stand in for the full
// lookup: `larder prod-x7f2q` runs as `larder products show prod-x7f2q`.
// Cobra would reject the id as an unknown subcommand, so argv is rewritten
// before Execute ever parses it; flags stay where the user put them.
func expandProductShortcut(argv []string) []string {
	i := firstPositional(argv)
	if i < 0 {
		return argv
	}
	if tok := strings.TrimSpace(argv[i]); tok == "prod-" || !strings.HasPrefix(tok, "prod-") {
		return argv
	}
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[:i]...)
	out = append(out, "products", "show")
	return append(out, argv[i:]...)
}

func main() {
	os.Args = expandProductShortcut(os.Args)

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

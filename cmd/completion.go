package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/streak-go/internal/config"
)

var completionCommands = []string{
	"tui", "status", "list", "toggle", "note", "reset", "export", "import",
	"print", "prefs", "doctor", "tail", "init", "completion", "version", "help",
}

var completionGlobalFlags = []string{
	"-start", "-days", "-tz", "-milestones", "-storage", "-storage-dir", "-key",
	"-export-dir", "-log-dir", "-log-level", "-log-format", "-log-timestamps",
	"-log-caller", "-help", "-version",
}

// completionCommand prints a shell completion script.
func completionCommand(_ *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("completion requires a shell: bash, zsh, fish or powershell")
	}
	commands := strings.Join(completionCommands, " ")
	flags := strings.Join(completionGlobalFlags, " ")

	switch args[0] {
	case "bash":
		fmt.Printf(`# streak bash completion
_streak() {
    local cur="${COMP_WORDS[COMP_CWORD]}"
    local prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        -storage) COMPREPLY=($(compgen -W "file sqlite memory" -- "$cur")); return ;;
        -log-level) COMPREPLY=($(compgen -W "debug info warn error" -- "$cur")); return ;;
        -log-format) COMPREPLY=($(compgen -W "text json logfmt" -- "$cur")); return ;;
        completion) COMPREPLY=($(compgen -W "bash zsh fish powershell" -- "$cur")); return ;;
        import|export|-storage-dir|-export-dir|-log-dir) COMPREPLY=($(compgen -f -- "$cur")); return ;;
    esac
    if [[ "$cur" == -* ]]; then
        COMPREPLY=($(compgen -W "%s" -- "$cur"))
    else
        COMPREPLY=($(compgen -W "%s" -- "$cur"))
    fi
}
complete -F _streak streak
`, flags, commands)
	case "zsh":
		fmt.Printf(`#compdef streak
# streak zsh completion
_streak() {
    local -a commands flags
    commands=(%s)
    flags=(%s)
    if [[ "$words[CURRENT]" == -* ]]; then
        compadd -a flags
    else
        compadd -a commands
    fi
}
compdef _streak streak
`, commands, flags)
	case "fish":
		fmt.Println("# streak fish completion")
		fmt.Println("complete -c streak -f")
		for _, c := range completionCommands {
			fmt.Printf("complete -c streak -n '__fish_use_subcommand' -a %s\n", c)
		}
		for _, f := range completionGlobalFlags {
			fmt.Printf("complete -c streak -o %s\n", strings.TrimPrefix(f, "-"))
		}
		fmt.Println("complete -c streak -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'")
	case "powershell", "pwsh":
		fmt.Printf(`# streak PowerShell completion
Register-ArgumentCompleter -Native -CommandName streak -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    $items = '%s'.Split(' ') + '%s'.Split(' ')
    $items | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`, commands, flags)
	default:
		return fmt.Errorf("unsupported shell %q: expected bash, zsh, fish or powershell", args[0])
	}
	return nil
}

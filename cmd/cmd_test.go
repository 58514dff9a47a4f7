package cmd

import (
	"testing"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{
		"init", "list", "show", "manufacturers", "certs", "facets",
		"explore", "dashboard", "browse", "request", "contact", "outbox",
		"stats", "chart", "watch", "serve", "doctor", "config", "version", "faq",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd == nil || cmd == rootCmd {
				t.Fatalf("Command '%s' is not registered", cmdName)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "dw" {
		t.Errorf("Expected root command Use to be 'dw', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}

	if rootCmd.PersistentPreRunE == nil {
		t.Error("Root command should wire services before running subcommands")
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()

	if len(commands) == 0 {
		t.Fatal("No commands registered")
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

// TestFlagsExist verifies important flags are registered
func TestFlagsExist(t *testing.T) {
	tests := []struct {
		command  string
		flagName string
	}{
		{"list", "color"},
		{"list", "manufacturer"},
		{"list", "cert"},
		{"list", "valid-only"},
		{"list", "all"},
		{"list", "today"},
		{"list", "json"},
		{"show", "yaml"},
		{"show", "copy"},
		{"explore", "request"},
		{"request", "email"},
		{"request", "message"},
		{"contact", "email"},
		{"contact", "name"},
		{"stats", "horizon"},
		{"chart", "output"},
		{"serve", "addr"},
		{"serve", "watch"},
		{"watch", "quiet"},
		{"config", "show"},
		{"init", "force"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"_"+tt.flagName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", tt.command, err)
			}

			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Errorf("Flag '--%s' not found on command '%s'", tt.flagName, tt.command)
			}
		})
	}
}

// TestPersistentFlags verifies global flags on the root command
func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "catalog", "policy", "log"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Persistent flag '--%s' not found", name)
		}
	}
}

// TestCommandAliases verifies command aliases work
func TestCommandAliases(t *testing.T) {
	tests := []struct {
		alias   string
		command string
	}{
		{"ls", "list"},
		{"mfr", "manufacturers"},
		{"certifications", "certs"},
		{"dash", "dashboard"},
		{"v", "version"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.alias})
			if err != nil {
				t.Fatalf("Alias '%s' not found: %v", tt.alias, err)
			}
			if cmd.Name() != tt.command {
				t.Errorf("Alias '%s' resolved to '%s', want '%s'", tt.alias, cmd.Name(), tt.command)
			}
		})
	}
}

// TestSkipInitCommands verifies which commands run without a loaded catalog
func TestSkipInitCommands(t *testing.T) {
	for _, name := range []string{"init", "version", "faq"} {
		if !skipInit[name] {
			t.Errorf("Expected '%s' to skip initialization", name)
		}
	}
	for _, name := range []string{"list", "serve", "doctor"} {
		if skipInit[name] {
			t.Errorf("Expected '%s' to require initialization", name)
		}
	}
}

// TestInitCommand verifies init command exists
func TestInitCommand(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"init"})
	if err != nil {
		t.Fatalf("Init command not found: %v", err)
	}

	// Init should not require an initialized data directory
	if cmd.PersistentPreRunE != nil {
		t.Error("Init command should not have PersistentPreRunE")
	}
}

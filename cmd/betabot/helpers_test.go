package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/betabot/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testBoard = "1:100,100|2:200,400|3:300,900|4:400,1000|5:500,1100"

// execute runs the CLI in-process with a clean environment and fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{
		config.EnvAPIKey, config.EnvBoard, config.EnvRouteBank, config.EnvSynthesizer, config.EnvPort,
	} {
		t.Setenv(key, "")
	}

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

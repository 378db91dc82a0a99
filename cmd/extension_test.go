package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	tempDir := t.TempDir()

	// btab-hello prints the environment it was given, and its arguments.
	helloSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, EnvURL, EnvURL, EnvState, EnvState, EnvView, EnvView, EnvVerbose, EnvVerbose)

	helloPath := filepath.Join(tempDir, "btab-hello")
	srcFile := helloPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloSource), 0644); err != nil {
		t.Fatalf("Failed to write btab-hello source: %v", err)
	}
	build := exec.Command("go", "build", "-o", helloPath, srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile btab-hello: %v", err)
	}

	btabPath := filepath.Join(tempDir, "btab")
	build = exec.Command("go", "build", "-o", btabPath, "../btab")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile btab binary: %v", err)
	}

	wantURL := "http://ledger.test:5000/personal"
	wantState := filepath.Join(tempDir, "state.sqlite")
	wantView := filepath.Join(tempDir, "view.yaml")

	args := []string{
		"-url", wantURL,
		"-state", wantState,
		"-view", wantView,
		"-v",
		"hello", "world",
	}
	btab := exec.Command(btabPath, args...)
	btab.Dir = tempDir
	btab.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH")}

	var stdout, stderr bytes.Buffer
	btab.Stdout = &stdout
	btab.Stderr = &stderr
	if err := btab.Run(); err != nil {
		t.Fatalf("btab command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{
		EnvURL + "=" + wantURL,
		EnvState + "=" + wantState,
		EnvView + "=" + wantView,
		EnvVerbose + "=" + strconv.FormatBool(true),
		"args=[world]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, output)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	found, code := RunExtension("does-not-exist", nil)
	if found || code != 0 {
		t.Errorf("RunExtension() = %v, %d, want false, 0", found, code)
	}
}

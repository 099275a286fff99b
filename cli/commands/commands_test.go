package commands_test

import (
	"bytes"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/robgonnella/portx/cli/commands"
	"github.com/robgonnella/portx/internal/exception"
	"github.com/robgonnella/portx/internal/info"
	"github.com/robgonnella/portx/internal/ui"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func execute(args ...string) (string, error) {
	cmd := commands.Root(&commands.CommandProps{UI: ui.New()})

	out := &bytes.Buffer{}

	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--silent"))

	err := cmd.Execute()

	return out.String(), err
}

func setPaths(t *testing.T) {
	dir := t.TempDir()

	viper.Set("config-file", filepath.Join(dir, "portx.yml"))
	viper.Set("database-file", filepath.Join(dir, "portx.db"))
	viper.Set("log-file", filepath.Join(dir, "portx.log"))

	t.Cleanup(func() {
		viper.Set("config-file", "")
		viper.Set("database-file", "")
		viper.Set("log-file", "")
	})
}

func TestCommands(t *testing.T) {
	t.Run("prints version", func(st *testing.T) {
		out, err := execute("version")

		assert.NoError(st, err)
		assert.Equal(st, info.NAME+": "+info.VERSION+"\n", out)
	})

	t.Run("expands cidr", func(st *testing.T) {
		out, err := execute("expand", "10.0.0.0/30")

		assert.NoError(st, err)
		assert.Contains(st, out, "10.0.0.1\n")
		assert.Contains(st, out, "10.0.0.2\n")
	})

	t.Run("rejects invalid cidr", func(st *testing.T) {
		_, err := execute("expand", "nope")

		assert.ErrorIs(st, err, exception.ErrInvalidCIDR)
	})

	t.Run("rejects invalid scan requests", func(st *testing.T) {
		setPaths(st)

		_, err := execute("scan", "127.0.0.1", "-p", "80-20")

		assert.ErrorIs(st, err, exception.ErrInvalidPortSpec)

		_, err = execute("scan", "not a host!", "-p", "80")

		assert.ErrorIs(st, err, exception.ErrInvalidRequest)
	})

	t.Run("scans, records and lists history", func(st *testing.T) {
		setPaths(st)

		listener, err := net.Listen("tcp", "127.0.0.1:0")

		assert.NoError(st, err)

		defer listener.Close()

		go func() {
			for {
				conn, err := listener.Accept()
				if err != nil {
					return
				}
				conn.Close()
			}
		}()

		port := strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)
		txtFile := filepath.Join(st.TempDir(), "out.txt")

		out, err := execute("scan", "127.0.0.1", "-p", port, "-c", "5", "-t", "1s", "--txt", txtFile)

		assert.NoError(st, err)
		assert.Contains(st, out, port)
		assert.Contains(st, strings.ToLower(out), "open")
		assert.Contains(st, out, "127.0.0.1: 1 open, 0 closed, 0 timeout, 0 error")
		assert.FileExists(st, txtFile)

		out, err = execute("history")

		assert.NoError(st, err)
		assert.Contains(st, out, "127.0.0.1")
		assert.Contains(st, out, "complete")

		out, err = execute("history", "clear")

		assert.NoError(st, err)
		assert.Contains(st, out, "cleared scan history")
	})

	t.Run("history show reports missing scan", func(st *testing.T) {
		setPaths(st)

		_, err := execute("history", "show", "missing")

		assert.ErrorIs(st, err, exception.ErrRecordNotFound)
	})
}

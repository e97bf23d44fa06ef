package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tg-censor/tg-censor/app/bot"
	"github.com/tg-censor/tg-censor/lib/censor"
)

func TestMakeSuppressLogger(t *testing.T) {
	file, err := os.CreateTemp(os.TempDir(), "log")
	require.NoError(t, err)
	defer os.Remove(file.Name())

	logger := makeSuppressLogger(file)

	msg := &bot.Message{
		From: bot.User{
			ID:          123,
			DisplayName: "Test User",
			Username:    "testuser",
		},
		Text: "Test message\nblah blah  \n\n\n",
	}
	response := &bot.Response{
		DeleteOriginal: true,
		Matches:        []string{"blah"},
	}

	logger.Save(msg, response)
	file.Close()

	// check that the report is saved to the log file
	file, err = os.Open(file.Name())
	require.NoError(t, err)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		t.Log(line)

		var logEntry map[string]interface{}
		err = json.Unmarshal([]byte(line), &logEntry)
		require.NoError(t, err)

		assert.Equal(t, "Test User", logEntry["display_name"])
		assert.Equal(t, "testuser", logEntry["user_name"])
		assert.Equal(t, float64(123), logEntry["user_id"]) // json.Unmarshal converts numbers to float64
		assert.Equal(t, "Test message blah blah", logEntry["text"])
		assert.Equal(t, []interface{}{"blah"}, logEntry["matches"])
	}
	assert.NoError(t, scanner.Err())
}

func TestMakeSuppressLogWriter(t *testing.T) {
	setupLog(true, "super-secret-token")
	t.Run("happy path", func(t *testing.T) {
		file, err := os.CreateTemp(os.TempDir(), "log")
		require.NoError(t, err)
		defer os.Remove(file.Name())

		var opts options
		opts.Logger.Enabled = true
		opts.Logger.FileName = file.Name()
		opts.Logger.MaxSize = "1M"
		opts.Logger.MaxBackups = 1

		writer, err := makeSuppressLogWriter(opts)
		require.NoError(t, err)

		_, err = writer.Write([]byte("Test log entry\n"))
		assert.NoError(t, err)
		err = writer.Close()
		assert.NoError(t, err)

		file, err = os.Open(file.Name())
		require.NoError(t, err)

		content, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Equal(t, "Test log entry\n", string(content))
	})

	t.Run("failed on wrong size", func(t *testing.T) {
		var opts options
		opts.Logger.Enabled = true
		opts.Logger.FileName = "/tmp"
		opts.Logger.MaxSize = "1f"
		opts.Logger.MaxBackups = 1
		writer, err := makeSuppressLogWriter(opts)
		assert.Error(t, err)
		t.Log(err)
		assert.Nil(t, writer)
	})

	t.Run("disabled", func(t *testing.T) {
		var opts options
		opts.Logger.Enabled = false
		opts.Logger.FileName = "/tmp"
		opts.Logger.MaxSize = "10M"
		opts.Logger.MaxBackups = 1
		writer, err := makeSuppressLogWriter(opts)
		assert.NoError(t, err)
		assert.IsType(t, nopWriteCloser{}, writer)
	})
}

func Test_makeDetector(t *testing.T) {
	t.Run("no options", func(t *testing.T) {
		var opts options
		res, err := makeDetector(opts)
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res.Admins())
	})

	t.Run("with seed admin", func(t *testing.T) {
		var opts options
		opts.SeedAdmin = "mip5:231963552292929546"
		opts.Files.RulesFile = filepath.Join(t.TempDir(), "appdata.bin")

		res, err := makeDetector(opts)
		require.NoError(t, err)
		require.Len(t, res.Admins(), 1)
		assert.Equal(t, "mip5", res.Admins()[0].Name)
		assert.Equal(t, int64(231963552292929546), res.Admins()[0].ID)
	})

	t.Run("bad seed admin", func(t *testing.T) {
		var opts options
		opts.SeedAdmin = "no-id-here"
		_, err := makeDetector(opts)
		assert.Error(t, err)
	})

	t.Run("rules survive restart", func(t *testing.T) {
		var opts options
		opts.SeedAdmin = "mip5:231963552292929546"
		opts.Files.RulesFile = filepath.Join(t.TempDir(), "appdata.bin")

		res, err := makeDetector(opts)
		require.NoError(t, err)
		require.NoError(t, res.AddPhrase("crap"))

		res2, err := makeDetector(opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"crap"}, res2.Phrases())
		require.Len(t, res2.Admins(), 1)
	})

	t.Run("corrupt rules file", func(t *testing.T) {
		var opts options
		opts.Files.RulesFile = filepath.Join(t.TempDir(), "appdata.bin")
		require.NoError(t, os.WriteFile(opts.Files.RulesFile, []byte("not cbor at all"), 0o600))

		_, err := makeDetector(opts)
		assert.Error(t, err)
	})
}

func Test_makeCensorBot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("built-in dictionary", func(t *testing.T) {
		var opts options
		opts.Files.RulesFile = filepath.Join(t.TempDir(), "appdata.bin")
		detector, err := makeDetector(opts)
		require.NoError(t, err)

		res, err := makeCensorBot(ctx, opts, detector)
		assert.NoError(t, err)
		assert.NotNil(t, res)
	})

	t.Run("with dictionary file", func(t *testing.T) {
		var opts options
		tmpDir := t.TempDir()
		opts.Files.RulesFile = filepath.Join(tmpDir, "appdata.bin")
		opts.Files.DictionaryFile = filepath.Join(tmpDir, "dictionary.txt")
		require.NoError(t, os.WriteFile(opts.Files.DictionaryFile, []byte("classic\nclass\n"), 0o600))
		detector, err := makeDetector(opts)
		require.NoError(t, err)

		res, err := makeCensorBot(ctx, opts, detector)
		assert.NoError(t, err)
		assert.NotNil(t, res)
	})

	t.Run("missing dictionary file", func(t *testing.T) {
		var opts options
		tmpDir := t.TempDir()
		opts.Files.RulesFile = filepath.Join(tmpDir, "appdata.bin")
		opts.Files.DictionaryFile = filepath.Join(tmpDir, "nope.txt")
		detector, err := makeDetector(opts)
		require.NoError(t, err)

		_, err = makeCensorBot(ctx, opts, detector)
		assert.Error(t, err)
	})
}

func Test_findToken(t *testing.T) {
	t.Run("first candidate wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b", "env"), 0o700))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "env"), 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "env", "key"), []byte("  inner-token\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "env", "key"), []byte("outer-token"), 0o600))
		t.Chdir(filepath.Join(dir, "a", "b"))

		token, err := findToken("env/key", "../../env/key")
		require.NoError(t, err)
		assert.Equal(t, "inner-token", token, "token content should be trimmed")
	})

	t.Run("fallback to the next candidate", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o700))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "env"), 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "env", "key"), []byte("outer-token\n"), 0o600))
		t.Chdir(filepath.Join(dir, "a", "b"))

		token, err := findToken("env/key", "../../env/key")
		require.NoError(t, err)
		assert.Equal(t, "outer-token", token)
	})

	t.Run("blank file skipped", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "env"), 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "env", "key"), []byte("   \n"), 0o600))
		t.Chdir(dir)

		_, err := findToken("env/key")
		assert.Error(t, err)
	})

	t.Run("no token anywhere", func(t *testing.T) {
		t.Chdir(t.TempDir())
		_, err := findToken(tokenFiles...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no token file")
	})
}

func Test_parseSeedAdmin(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    censor.Admin
		wantErr bool
	}{
		{"valid", "mip5:231963552292929546", censor.Admin{Name: "mip5", ID: 231963552292929546}, false},
		{"name with spaces", "some admin:42", censor.Admin{Name: "some admin", ID: 42}, false},
		{"no colon", "mip5", censor.Admin{}, true},
		{"bad id", "mip5:not-a-number", censor.Admin{}, true},
		{"empty name", ":123", censor.Admin{}, true},
		{"empty input", "", censor.Admin{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSeedAdmin(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_execute(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts options
	opts.Telegram.Token = "invalid-token"
	opts.Telegram.Group = "123"
	opts.Telegram.Timeout = 2 * time.Second

	err := execute(ctx, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't make telegram bot")
}
